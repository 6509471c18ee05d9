package models

import (
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidSlug reports whether s may be used as a category slug in URLs.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

type Category struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:64;unique;not null" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type Location struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;unique;not null" json:"name"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}
