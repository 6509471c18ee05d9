package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

const (
	postKey    = "post"
	commentKey = "comment"
)

type postGetter interface {
	GetPost(ctx context.Context, id int) (*models.Post, error)
}

type commentGetter interface {
	GetComment(ctx context.Context, id int) (*models.Comment, error)
}

// loadVisiblePost resolves the :id post and checks the requester may read
// it. Missing and hidden posts get the same 404, so the response never
// reveals that a hidden post exists.
func loadVisiblePost(c *gin.Context, store postGetter, log *logrus.Logger, now time.Time) (*models.Post, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Post")
		return nil, false
	}

	post, err := store.GetPost(c.Request.Context(), id)
	if err != nil {
		storeError(c, log, "Post", err)
		return nil, false
	}

	if !post.VisibleTo(viewerID(c), now) {
		notFound(c, "Post")
		return nil, false
	}
	return post, true
}

// denyToPost is the authorization failure path: the requester is sent to
// the read-only detail page instead of receiving an error.
func denyToPost(c *gin.Context, postID int) {
	c.Redirect(http.StatusSeeOther, postPath(postID))
	c.Abort()
}

// RequirePostAuthor loads the :id post and lets only its author through.
// The post is stored on the context for the next handler.
func RequirePostAuthor(store postGetter, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			notFound(c, "Post")
			return
		}

		post, err := store.GetPost(c.Request.Context(), id)
		if err != nil {
			storeError(c, log, "Post", err)
			return
		}

		if !models.CanMutate(post, viewerID(c)) {
			denyToPost(c, post.ID)
			return
		}

		c.Set(postKey, post)
		c.Next()
	}
}

// RequireCommentAuthor loads the :commentId comment of the :id post and lets
// only its author through.
func RequireCommentAuthor(store commentGetter, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := paramID(c, "id")
		if !ok {
			notFound(c, "Comment")
			return
		}
		commentID, ok := paramID(c, "commentId")
		if !ok {
			notFound(c, "Comment")
			return
		}

		comment, err := store.GetComment(c.Request.Context(), commentID)
		if err != nil {
			storeError(c, log, "Comment", err)
			return
		}
		if comment.PostID != postID {
			notFound(c, "Comment")
			return
		}

		if !models.CanMutate(comment, viewerID(c)) {
			denyToPost(c, comment.PostID)
			return
		}

		c.Set(commentKey, comment)
		c.Next()
	}
}
