package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type AuthHandler struct {
	store  database.Store
	tokens *auth.TokenManager
	log    *logrus.Logger
}

func NewAuthHandler(store database.Store, tokens *auth.TokenManager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log}
}

// setTokenCookie hands the token to clients that navigate by redirect.
func setTokenCookie(c *gin.Context, tokens *auth.TokenManager, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(tokens.TTL().Seconds()), "/", "", false, true)
}

// issue signs a token for user, sets the cookie and returns the token.
func issue(c *gin.Context, tokens *auth.TokenManager, log *logrus.Logger, user *models.User) (string, bool) {
	token, err := tokens.Issue(user)
	if err != nil {
		serverError(c, log, "Failed to generate token", err)
		return "", false
	}
	setTokenCookie(c, tokens, token)
	return token, true
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	return next
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, h.log, "Failed to hash password", err)
		return
	}

	user := models.User{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hashedPassword),
	}

	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		if duplicateError(c, err) {
			return
		}
		serverError(c, h.log, "Failed to create user", err)
		return
	}

	token, ok := issue(c, h.tokens, h.log, &user)
	if !ok {
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	c.JSON(http.StatusCreated, models.AuthResponse{
		Token:   token,
		User:    user,
		Message: "User registered successfully",
	})
}

// Login handles user login. A next query parameter, as set by the login
// redirect, is echoed back so the client can resume where it was.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), input.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		serverError(c, h.log, "Failed to load user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, ok := issue(c, h.tokens, h.log, user)
	if !ok {
		return
	}

	next := safeNext(c.Query("next"))
	if next == "" {
		next = profilePath(user.Username)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
		"next":    next,
	})
}

// LoginPage tells anonymous clients that were redirected here how to sign in.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": "Authentication required",
		"login": LoginPath,
		"next":  safeNext(c.Query("next")),
	})
}

// Logout clears the token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), viewerID(c))
	if err != nil {
		storeError(c, h.log, "User", err)
		return
	}

	c.JSON(http.StatusOK, user)
}
