package handlers

import (
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
	"github.com/emilythestrangee/blogicum/backend/internal/notify"
)

// LoginPath is where anonymous requesters are sent before mutating anything.
const LoginPath = "/api/auth/login"

// Deps carries the collaborators shared by every handler.
type Deps struct {
	Store      database.Store
	Tokens     *auth.TokenManager
	Notifier   notify.Notifier
	Dispatcher *notify.Dispatcher
	Metrics    *metrics.Metrics
	Log        *logrus.Logger
	MailFrom   string
	MediaDir   string
	Now        func() time.Time
}

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Post     *PostHandler
	Comment  *CommentHandler
	User     *UserHandler
	Category *CategoryHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	if d.Now == nil {
		d.Now = time.Now
	}

	return &Handler{
		Auth:     NewAuthHandler(d.Store, d.Tokens, d.Log),
		Post:     NewPostHandler(d.Store, d.MediaDir, d.Log, d.Now),
		Comment:  NewCommentHandler(d.Store, d.Notifier, d.Dispatcher, d.Metrics, d.MailFrom, d.Log, d.Now),
		User:     NewUserHandler(d.Store, d.Tokens, d.Log, d.Now),
		Category: NewCategoryHandler(d.Store, d.Log, d.Now),
	}
}

func postPath(id int) string {
	return fmt.Sprintf("/api/posts/%d", id)
}

func profilePath(username string) string {
	return "/api/profile/" + url.PathEscape(username)
}
