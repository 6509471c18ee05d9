// Package seed loads categories and locations, the administrator-managed
// reference data, from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

type Fixture struct {
	Categories []Category `yaml:"categories" validate:"dive"`
	Locations  []Location `yaml:"locations" validate:"dive"`
}

type Category struct {
	Title       string `yaml:"title" validate:"required,max=256"`
	Slug        string `yaml:"slug" validate:"required,max=64,slug"`
	Description string `yaml:"description"`
	Published   *bool  `yaml:"is_published"`
}

type Location struct {
	Name      string `yaml:"name" validate:"required,max=256"`
	Published *bool  `yaml:"is_published"`
}

// RegisterSlug adds the "slug" rule to v.
func RegisterSlug(v *validator.Validate) error {
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return models.ValidSlug(fl.Field().String())
	})
}

// Parse decodes and validates a fixture.
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	v := validator.New()
	if err := RegisterSlug(v); err != nil {
		return nil, err
	}
	if err := v.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &f, nil
}

func Load(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

func published(p *bool) bool {
	return p == nil || *p
}

// Apply upserts every category by slug and every location by name.
func Apply(ctx context.Context, db *gorm.DB, f *Fixture) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range f.Categories {
			row := models.Category{Title: c.Title, Slug: c.Slug, Description: c.Description}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Slug, err)
			}
			// is_published has a database default, so false must be written separately.
			err = tx.Model(&models.Category{}).Where("slug = ?", c.Slug).Update("is_published", published(c.Published)).Error
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Slug, err)
			}
		}

		for _, l := range f.Locations {
			row := models.Location{Name: l.Name}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("seed location %q: %w", l.Name, err)
			}
			err = tx.Model(&models.Location{}).Where("name = ?", l.Name).Update("is_published", published(l.Published)).Error
			if err != nil {
				return fmt.Errorf("seed location %q: %w", l.Name, err)
			}
		}
		return nil
	})
}
