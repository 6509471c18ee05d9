package database

import (
	"context"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

func (r *Repository) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// UpdateProfile writes the self-editable columns of user.
func (r *Repository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("username", "first_name", "last_name", "email", "updated_at").
		Updates(user).Error
	return translate(err)
}

// ListEmails returns the address of every registered user that has one.
func (r *Repository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email <> ''").
		Order("id").
		Pluck("email", &emails).Error
	return emails, err
}
