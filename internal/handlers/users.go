package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type UserHandler struct {
	store  database.Store
	tokens *auth.TokenManager
	log    *logrus.Logger
	now    func() time.Time
}

func NewUserHandler(store database.Store, tokens *auth.TokenManager, log *logrus.Logger, now func() time.Time) *UserHandler {
	return &UserHandler{store: store, tokens: tokens, log: log, now: now}
}

func profileResponse(u models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"date_joined": u.CreatedAt,
	}
}

// GetProfile returns a user's profile with a page of their posts. The owner
// also sees unpublished and scheduled posts.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.store.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		storeError(c, h.log, "User", err)
		return
	}

	isOwner := viewerID(c) == user.ID
	posts, page, err := h.store.ListAuthorPosts(c.Request.Context(), user.ID, isOwner, h.now(), c.Query("page"))
	if err != nil {
		serverError(c, h.log, "Failed to fetch posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":  profileResponse(*user),
		"is_owner": isOwner,
		"posts":    postList(posts),
		"page":     page,
	})
}

// EditProfileForm returns the editable fields of the requester's profile.
func (h *UserHandler) EditProfileForm(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), viewerID(c))
	if err != nil {
		storeError(c, h.log, "User", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": models.ProfileRequest{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}})
}

// EditProfile updates the requester's own profile and redirects to it under
// its possibly new username.
func (h *UserHandler) EditProfile(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), viewerID(c))
	if err != nil {
		storeError(c, h.log, "User", err)
		return
	}

	var input models.ProfileRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	user.Username = input.Username
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email

	if err := h.store.UpdateProfile(c.Request.Context(), user); err != nil {
		if duplicateError(c, err) {
			return
		}
		storeError(c, h.log, "User", err)
		return
	}

	// The token carries the username, so a rename needs a fresh one.
	if _, ok := issue(c, h.tokens, h.log, user); !ok {
		return
	}

	c.Redirect(http.StatusSeeOther, profilePath(user.Username))
}
