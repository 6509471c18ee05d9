package database

import (
	"context"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *Repository) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, translate(err)
	}
	return &location, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.WithContext(ctx).Where("is_published = ?", true).Order("title").Find(&categories).Error
	return categories, err
}

func (r *Repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	locations := []models.Location{}
	err := r.db.WithContext(ctx).Where("is_published = ?", true).Order("name").Find(&locations).Error
	return locations, err
}
