package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/posts/1", "/posts/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/posts/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestNotificationOutcomes(t *testing.T) {
	m := New()
	m.CommentCreated()
	m.NotificationSent(nil)
	m.NotificationSent(errors.New("smtp down"))
	m.NotificationSent(errors.New("smtp down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.comments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications.WithLabelValues("failed")))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.CommentCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blogicum_comments_created_total 1")
}
