package models

import (
	"time"
)

// Task is an admin-defined promotional item shown in the mini app.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `json:"description"`
	Type        string `gorm:"size:50" json:"type"`
	Reward      int64  `json:"reward"`
	Link        string `gorm:"size:512" json:"link"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	Status      string `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
