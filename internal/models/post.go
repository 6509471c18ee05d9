package models

import "time"

type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	Image       string    `json:"image,omitempty"`

	AuthorID   int       `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CategoryID int       `gorm:"not null;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	LocationID *int      `json:"location_id,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`

	Comments     []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CommentCount int       `gorm:"->;-:migration" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostRequest is the editable field set of a post. pub_date accepts RFC 3339
// in JSON bodies and the datetime-local layout in forms.
type PostRequest struct {
	Title      string    `json:"title" form:"title" binding:"required,max=256"`
	Text       string    `json:"text" form:"text" binding:"required"`
	PubDate    time.Time `json:"pub_date" form:"pub_date" time_format:"2006-01-02T15:04" binding:"required"`
	CategoryID int       `json:"category" form:"category" binding:"required,gt=0"`
	LocationID *int      `json:"location" form:"location" binding:"omitempty,gt=0"`
}
