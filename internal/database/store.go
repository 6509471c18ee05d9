package database

import (
	"context"
	"time"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
)

// Store is every query the HTTP handlers need.
type Store interface {
	ListPublicPosts(ctx context.Context, now time.Time, rawPage string) ([]models.Post, pagination.Page, error)
	ListCategoryPosts(ctx context.Context, categoryID int, now time.Time, rawPage string) ([]models.Post, pagination.Page, error)
	ListAuthorPosts(ctx context.Context, authorID int, includeHidden bool, now time.Time, rawPage string) ([]models.Post, pagination.Page, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id int) error

	ListComments(ctx context.Context, postID int) ([]models.Comment, error)
	GetComment(ctx context.Context, id int) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id int) error

	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	ListEmails(ctx context.Context) ([]string, error)

	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	GetLocation(ctx context.Context, id int) (*models.Location, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MockRepository)(nil)
)
