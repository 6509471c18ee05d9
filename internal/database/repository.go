package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
)

// Repository implements the blog's queries on top of gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// publicPosts restricts a posts query to what anonymous readers may see.
func publicPosts(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND posts.pub_date <= ? AND categories.is_published = ?", true, now, true)
	}
}

const selectWithCommentCount = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// paginate counts the rows matched by q and loads the requested page of them,
// newest first.
func (r *Repository) paginate(q *gorm.DB, rawPage string) ([]models.Post, pagination.Page, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.New(rawPage, total, pagination.PageSize)

	posts := []models.Post{}
	err := q.Preload("Author").
		Preload("Category").
		Preload("Location").
		Select(selectWithCommentCount).
		Order("posts.pub_date DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&posts).Error
	if err != nil {
		return nil, pagination.Page{}, err
	}

	return posts, page, nil
}

// ListPublicPosts returns one page of the index feed.
func (r *Repository) ListPublicPosts(ctx context.Context, now time.Time, rawPage string) ([]models.Post, pagination.Page, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(publicPosts(now))
	return r.paginate(q, rawPage)
}

// ListCategoryPosts returns one page of public posts in a category.
func (r *Repository) ListCategoryPosts(ctx context.Context, categoryID int, now time.Time, rawPage string) ([]models.Post, pagination.Page, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Scopes(publicPosts(now)).
		Where("posts.category_id = ?", categoryID)
	return r.paginate(q, rawPage)
}

// ListAuthorPosts returns one page of an author's posts. With includeHidden
// the visibility restriction is dropped, which is how owners see their drafts.
func (r *Repository) ListAuthorPosts(ctx context.Context, authorID int, includeHidden bool, now time.Time, rawPage string) ([]models.Post, pagination.Page, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("posts.author_id = ?", authorID)
	if !includeHidden {
		q = q.Scopes(publicPosts(now))
	}
	return r.paginate(q, rawPage)
}

// GetPost loads one post with its associations and comment count.
func (r *Repository) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Select(selectWithCommentCount).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

// UpdatePost writes the editable columns of post.
func (r *Repository) UpdatePost(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(post).
		Select("title", "text", "pub_date", "is_published", "image", "category_id", "location_id", "updated_at").
		Updates(post)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post together with its comments.
func (r *Repository) DeletePost(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
