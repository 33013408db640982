package models

import (
	"time"
)

// WithdrawalRequest records an accepted withdrawal. Payout happens
// out-of-band after launch, so the row is never mutated here.
type WithdrawalRequest struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"size:36;uniqueIndex;not null"`
	UserID    int64  `gorm:"not null;index"`
	Amount    int64  `gorm:"not null"`
	CreatedAt time.Time
}
