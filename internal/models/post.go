package models

import (
	"time"
)

type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	Author        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Heading       string    `json:"heading"` // Optional
	Text          string    `gorm:"type:text;not null" json:"text"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int       `gorm:"not null;default:0" json:"dislikes_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
