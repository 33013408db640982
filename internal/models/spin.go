package models

import (
	"time"
)

// SpinRecord is an append-only log entry for one spin draw.
type SpinRecord struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    int64   `gorm:"not null;index" json:"user_id"`
	PrizeType string  `gorm:"size:20;not null" json:"prize_type"`
	Amount    float64 `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
