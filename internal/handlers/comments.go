package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/notify"
)

type CommentHandler struct {
	store      database.Store
	notifier   notify.Notifier
	dispatcher *notify.Dispatcher
	metrics    *metrics.Metrics
	mailFrom   string
	log        *logrus.Logger
	now        func() time.Time
}

func NewCommentHandler(
	store database.Store,
	notifier notify.Notifier,
	dispatcher *notify.Dispatcher,
	m *metrics.Metrics,
	mailFrom string,
	log *logrus.Logger,
	now func() time.Time,
) *CommentHandler {
	return &CommentHandler{
		store:      store,
		notifier:   notifier,
		dispatcher: dispatcher,
		metrics:    m,
		mailFrom:   mailFrom,
		log:        log,
		now:        now,
	}
}

// CreateComment adds a comment to a post the requester can see
func (h *CommentHandler) CreateComment(c *gin.Context) {
	post, ok := loadVisiblePost(c, h.store, h.log, h.now())
	if !ok {
		return
	}

	var input models.CommentRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	comment := models.Comment{
		Text:     input.Text,
		PostID:   post.ID,
		AuthorID: viewerID(c),
	}
	if err := h.store.CreateComment(c.Request.Context(), &comment); err != nil {
		serverError(c, h.log, "Failed to create comment", err)
		return
	}

	if h.metrics != nil {
		h.metrics.CommentCreated()
	}
	h.announce(comment)

	c.Redirect(http.StatusSeeOther, postPath(post.ID))
}

// announce mails every user about the comment without holding up the
// response. Delivery problems only show up in logs and metrics.
func (h *CommentHandler) announce(comment models.Comment) {
	if h.dispatcher == nil || h.notifier == nil {
		return
	}

	h.dispatcher.Go(fmt.Sprintf("comment:%d", comment.ID), func(ctx context.Context) error {
		author, err := h.store.GetUser(ctx, comment.AuthorID)
		if err != nil {
			return fmt.Errorf("load commenter: %w", err)
		}
		recipients, err := h.store.ListEmails(ctx)
		if err != nil {
			return fmt.Errorf("load recipients: %w", err)
		}
		if len(recipients) == 0 {
			return nil
		}
		msg := notify.CommentMessage(h.mailFrom, recipients, author.Username, comment.Text)
		return h.notifier.Notify(ctx, msg)
	})
}

// EditCommentForm returns the comment being edited to its author.
func (h *CommentHandler) EditCommentForm(c *gin.Context) {
	comment := c.MustGet(commentKey).(*models.Comment)
	c.JSON(http.StatusOK, gin.H{"comment": commentResponse(*comment)})
}

// UpdateComment replaces the text of a comment (PROTECTED - requires ownership)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	comment := c.MustGet(commentKey).(*models.Comment)

	var input models.CommentRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	comment.Text = input.Text
	if err := h.store.UpdateComment(c.Request.Context(), comment); err != nil {
		storeError(c, h.log, "Comment", err)
		return
	}

	c.Redirect(http.StatusSeeOther, postPath(comment.PostID))
}

// DeleteComment deletes a comment (PROTECTED - requires ownership)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	comment := c.MustGet(commentKey).(*models.Comment)

	if err := h.store.DeleteComment(c.Request.Context(), comment.ID); err != nil {
		storeError(c, h.log, "Comment", err)
		return
	}

	c.Redirect(http.StatusSeeOther, postPath(comment.PostID))
}
