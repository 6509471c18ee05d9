package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type stubPosts map[int]*models.Post

func (s stubPosts) GetPost(_ context.Context, id int) (*models.Post, error) {
	p, ok := s[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := *p
	return &out, nil
}

type failingPosts struct{}

func (failingPosts) GetPost(context.Context, int) (*models.Post, error) {
	return nil, errors.New("connection reset")
}

// asUser stands in for the Authenticate middleware.
func asUser(id int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != 0 {
			c.Set(middleware.UserIDKey, id)
		}
		c.Next()
	}
}

func TestRequirePostAuthor(t *testing.T) {
	store := stubPosts{7: {ID: 7, AuthorID: 1}}

	tests := []struct {
		name     string
		store    postGetter
		viewer   int
		path     string
		status   int
		location string
	}{
		{"author passes", store, 1, "/posts/7", http.StatusNoContent, ""},
		{"other user redirected", store, 2, "/posts/7", http.StatusSeeOther, "/api/posts/7"},
		{"missing post", store, 1, "/posts/8", http.StatusNotFound, ""},
		{"bad id", store, 1, "/posts/x", http.StatusNotFound, ""},
		{"store failure", failingPosts{}, 1, "/posts/7", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.PUT("/posts/:id", asUser(tt.viewer), RequirePostAuthor(tt.store, quietLogger()), func(c *gin.Context) {
				post := c.MustGet(postKey).(*models.Post)
				assert.Equal(t, 7, post.ID)
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestLoadVisiblePost(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cat := models.Category{IsPublished: true}
	store := stubPosts{
		1: {ID: 1, AuthorID: 5, IsPublished: true, PubDate: now.Add(-time.Hour), Category: cat},
		2: {ID: 2, AuthorID: 5, IsPublished: true, PubDate: now.Add(time.Hour), Category: cat},
	}

	serve := func(viewer int, path string) int {
		r := gin.New()
		r.GET("/posts/:id", asUser(viewer), func(c *gin.Context) {
			if _, ok := loadVisiblePost(c, store, quietLogger(), now); ok {
				c.Status(http.StatusOK)
			}
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(0, "/posts/1"))
	assert.Equal(t, http.StatusNotFound, serve(0, "/posts/2"))
	assert.Equal(t, http.StatusNotFound, serve(6, "/posts/2"))
	assert.Equal(t, http.StatusOK, serve(5, "/posts/2"))
	assert.Equal(t, http.StatusNotFound, serve(5, "/posts/3"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/api/posts/1", safeNext("/api/posts/1"))
	assert.Equal(t, "", safeNext("//evil.example/x"))
	assert.Equal(t, "", safeNext("https://evil.example"))
	assert.Equal(t, "", safeNext(`/\evil.example`))
	assert.Equal(t, "", safeNext(""))
}

func TestBindErrorUsesJSONFieldNames(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/posts", func(c *gin.Context) {
		var input models.PostRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"x"}`)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"error": "validation failed",
		"fields": {
			"text": "This field is required.",
			"pub_date": "This field is required.",
			"category": "This field is required."
		}
	}`, w.Body.String())
}

func TestDuplicateError(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		if !duplicateError(c, &database.DuplicateError{Constraint: "uni_users_email"}) {
			c.Status(http.StatusTeapot)
		}
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"A user with that email already exists."`)
}

func TestImageFieldError(t *testing.T) {
	assert.Contains(t, imageFieldError(errBadImage), "valid image")
	assert.Equal(t, "Ensure the image is at most 5 MB.", imageFieldError(errImageTooLarge))
	assert.Empty(t, imageFieldError(errors.New("disk full")))
}

func TestProfilePathEscapes(t *testing.T) {
	assert.Equal(t, "/api/profile/alice", profilePath("alice"))
	assert.Equal(t, "/api/profile/a%20b", profilePath("a b"))
	assert.Equal(t, "/api/posts/12", postPath(12))
}

func TestDiscardImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, postImagesDir), 0o755))
	stored := filepath.Join(dir, postImagesDir, "a.png")
	require.NoError(t, os.WriteFile(stored, []byte("x"), 0o644))

	require.NoError(t, discardImage(dir, "/media/posts_images/a.png"))
	_, err := os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// Already gone, empty, outside the media prefix or escaping it: no-ops.
	assert.NoError(t, discardImage(dir, "/media/posts_images/a.png"))
	assert.NoError(t, discardImage(dir, ""))
	assert.NoError(t, discardImage(dir, "/etc/passwd"))
	assert.NoError(t, discardImage(dir, "/media/../secret"))
}
