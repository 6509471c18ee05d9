package database

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// ListComments returns a post's comments, oldest first.
func (r *Repository) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *Repository) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *Repository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(comment).Update("text", comment.Text)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
