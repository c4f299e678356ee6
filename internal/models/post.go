package models

import (
	"time"
)

type Post struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatorID uint64    `gorm:"not null" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Creator User   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Votes   []Vote `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
