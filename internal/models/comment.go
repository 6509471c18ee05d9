package models

import "time"

type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	AuthorID  int       `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}
