package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type CategoryHandler struct {
	store database.Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewCategoryHandler(store database.Store, log *logrus.Logger, now func() time.Time) *CategoryHandler {
	return &CategoryHandler{store: store, log: log, now: now}
}

// GetCategoryPosts lists the public posts of a published category.
func (h *CategoryHandler) GetCategoryPosts(c *gin.Context) {
	slug := c.Param("slug")
	if !models.ValidSlug(slug) {
		notFound(c, "Category")
		return
	}

	category, err := h.store.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		storeError(c, h.log, "Category", err)
		return
	}
	if !category.IsPublished {
		notFound(c, "Category")
		return
	}

	posts, page, err := h.store.ListCategoryPosts(c.Request.Context(), category.ID, h.now(), c.Query("page"))
	if err != nil {
		serverError(c, h.log, "Failed to fetch posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": categorySummary(*category),
		"posts":    postList(posts),
		"page":     page,
	})
}

// ListCategories returns the published categories a post may be filed under.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Failed to fetch categories", err)
		return
	}

	out := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categorySummary(cat))
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

func (h *CategoryHandler) ListLocations(c *gin.Context) {
	locations, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Failed to fetch locations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
