package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type PostHandler struct {
	store    database.Store
	mediaDir string
	log      *logrus.Logger
	now      func() time.Time
}

func NewPostHandler(store database.Store, mediaDir string, log *logrus.Logger, now func() time.Time) *PostHandler {
	return &PostHandler{store: store, mediaDir: mediaDir, log: log, now: now}
}

// GetPosts returns one page of the public feed.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, page, err := h.store.ListPublicPosts(c.Request.Context(), h.now(), c.Query("page"))
	if err != nil {
		serverError(c, h.log, "Failed to fetch posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": postList(posts),
		"page":  page,
	})
}

// GetPost returns a single post with its comments
func (h *PostHandler) GetPost(c *gin.Context) {
	post, ok := loadVisiblePost(c, h.store, h.log, h.now())
	if !ok {
		return
	}

	comments, err := h.store.ListComments(c.Request.Context(), post.ID)
	if err != nil {
		serverError(c, h.log, "Failed to fetch comments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     postResponse(*post),
		"comments": commentList(comments),
	})
}

// checkReferences validates the category and location ids of input.
func (h *PostHandler) checkReferences(ctx context.Context, input *models.PostRequest) (map[string]string, error) {
	fields := map[string]string{}

	if _, err := h.store.GetCategory(ctx, input.CategoryID); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		fields["category"] = "Select a valid choice."
	}
	if input.LocationID != nil {
		if _, err := h.store.GetLocation(ctx, *input.LocationID); err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				return nil, err
			}
			fields["location"] = "Select a valid choice."
		}
	}
	return fields, nil
}

// bindPost binds and validates the post form, storing an uploaded image.
// It writes the error response itself and reports false on failure.
func (h *PostHandler) bindPost(c *gin.Context) (*models.PostRequest, string, bool) {
	var input models.PostRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return nil, "", false
	}

	fields, err := h.checkReferences(c.Request.Context(), &input)
	if err != nil {
		serverError(c, h.log, "Failed to validate post", err)
		return nil, "", false
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return nil, "", false
	}

	image, err := saveImage(c, h.mediaDir)
	switch {
	case err == nil, errors.Is(err, errNoUpload):
	case imageFieldError(err) != "":
		invalid(c, map[string]string{"image": imageFieldError(err)})
		return nil, "", false
	default:
		serverError(c, h.log, "Failed to store image", err)
		return nil, "", false
	}

	return &input, image, true
}

func (h *PostHandler) discard(image string) {
	if err := discardImage(h.mediaDir, image); err != nil {
		h.log.WithError(err).WithField("image", image).Warn("orphaned upload left on disk")
	}
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	authorID := viewerID(c)

	input, image, ok := h.bindPost(c)
	if !ok {
		return
	}

	post := models.Post{
		Title:       input.Title,
		Text:        input.Text,
		PubDate:     input.PubDate,
		IsPublished: true,
		Image:       image,
		AuthorID:    authorID,
		CategoryID:  input.CategoryID,
		LocationID:  input.LocationID,
	}

	if err := h.store.CreatePost(c.Request.Context(), &post); err != nil {
		h.discard(image)
		serverError(c, h.log, "Failed to create post", err)
		return
	}

	author, err := h.store.GetUser(c.Request.Context(), authorID)
	if err != nil {
		serverError(c, h.log, "Failed to load author", err)
		return
	}

	h.log.WithFields(logrus.Fields{"post_id": post.ID, "author_id": authorID}).Info("post created")
	c.Redirect(http.StatusSeeOther, profilePath(author.Username))
}

// EditPostForm returns the current values of a post to its author.
func (h *PostHandler) EditPostForm(c *gin.Context) {
	post := c.MustGet(postKey).(*models.Post)
	c.JSON(http.StatusOK, gin.H{"post": postResponse(*post)})
}

// UpdatePost updates an existing post (PROTECTED - requires ownership).
// Moving the publication date into the future unpublishes the post.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	post := c.MustGet(postKey).(*models.Post)

	input, image, ok := h.bindPost(c)
	if !ok {
		return
	}

	post.Title = input.Title
	post.Text = input.Text
	post.PubDate = input.PubDate
	post.IsPublished = models.PublishedFor(input.PubDate, h.now())
	post.CategoryID = input.CategoryID
	post.LocationID = input.LocationID
	if image != "" {
		post.Image = image
	}

	if err := h.store.UpdatePost(c.Request.Context(), post); err != nil {
		h.discard(image)
		storeError(c, h.log, "Post", err)
		return
	}

	c.Redirect(http.StatusSeeOther, postPath(post.ID))
}

// DeletePost deletes a post (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	post := c.MustGet(postKey).(*models.Post)

	if err := h.store.DeletePost(c.Request.Context(), post.ID); err != nil {
		storeError(c, h.log, "Post", err)
		return
	}

	h.log.WithFields(logrus.Fields{"post_id": post.ID, "author_id": post.AuthorID}).Info("post deleted")
	c.Redirect(http.StatusSeeOther, profilePath(post.Author.Username))
}
