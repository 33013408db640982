package models

import (
	"time"
)

// Referral links a referrer to a referred user who completed verification.
// A referred user appears at most once, so the bonus credit is once-only.
type Referral struct {
	ID         uint  `gorm:"primaryKey"`
	ReferrerID int64 `gorm:"not null;index"`
	ReferredID int64 `gorm:"not null;uniqueIndex"`
	Bonus      int64 `gorm:"not null"`
	CreatedAt  time.Time
}
