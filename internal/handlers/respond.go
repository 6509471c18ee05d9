package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// RegisterValidators teaches gin's validator the "slug" and "username"
// rules and makes field errors use JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return models.ValidSlug(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidUsername(fl.Field().String())
	})
}

// paramID reads a numeric path parameter.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// viewerID is the authenticated user, or zero for anonymous requests.
func viewerID(c *gin.Context) int {
	id, _ := middleware.UserID(c)
	return id
}

func notFound(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func serverError(c *gin.Context, log *logrus.Logger, msg string, err error) {
	_ = c.Error(err)
	log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error(msg)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// storeError answers not-found for missing rows and 500 otherwise.
func storeError(c *gin.Context, log *logrus.Logger, what string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		notFound(c, what)
		return
	}
	serverError(c, log, "Failed to load "+strings.ToLower(what), err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "slug":
		return "Enter a valid slug: letters, numbers, underscores or hyphens."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "gt":
		return "Select a valid choice."
	default:
		return "Invalid value."
	}
}

// invalid answers 400 with per-field messages.
func invalid(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

// bindError turns a binding failure into a 400 response.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		invalid(c, fields)
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// duplicateError answers 400 for a unique-constraint clash.
func duplicateError(c *gin.Context, err error) bool {
	var dup *database.DuplicateError
	if !errors.As(err, &dup) {
		return false
	}
	field := dup.Field()
	if field == "" {
		field = "non_field_errors"
	}
	invalid(c, map[string]string{field: "A user with that " + field + " already exists."})
	return true
}

func userSummary(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

func categorySummary(cat models.Category) gin.H {
	return gin.H{
		"id":           cat.ID,
		"title":        cat.Title,
		"slug":         cat.Slug,
		"description":  cat.Description,
		"is_published": cat.IsPublished,
	}
}

func postResponse(p models.Post) gin.H {
	var location gin.H
	if p.Location != nil {
		location = gin.H{"id": p.Location.ID, "name": p.Location.Name}
	}
	return gin.H{
		"id":            p.ID,
		"title":         p.Title,
		"text":          p.Text,
		"pub_date":      p.PubDate,
		"is_published":  p.IsPublished,
		"image":         p.Image,
		"author":        userSummary(p.Author),
		"category":      categorySummary(p.Category),
		"location":      location,
		"comment_count": p.CommentCount,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
}

func postList(posts []models.Post) []gin.H {
	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse(p))
	}
	return out
}

func commentResponse(cm models.Comment) gin.H {
	return gin.H{
		"id":         cm.ID,
		"text":       cm.Text,
		"post_id":    cm.PostID,
		"author":     userSummary(cm.Author),
		"created_at": cm.CreatedAt,
		"updated_at": cm.UpdatedAt,
	}
}

func commentList(comments []models.Comment) []gin.H {
	out := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentResponse(cm))
	}
	return out
}
