package models

import (
	"time"
)

// User is the ledger record: one row per Telegram identity.
type User struct {
	UserID               int64  `gorm:"primaryKey" json:"user_id"`
	Username             string `gorm:"size:255" json:"username"`
	ReferralCount        int    `gorm:"default:0" json:"referral_count"`
	Balance              int64  `gorm:"default:0" json:"balance"`
	SolanaBalance        float64 `gorm:"default:0" json:"solana_balance"`
	SolanaAddress        string  `gorm:"size:100" json:"solana_address"`
	VerificationComplete bool    `gorm:"default:false" json:"verification_complete"`
	Energy               int     `gorm:"default:100" json:"energy"`
	LastTapTime          *time.Time `json:"last_tap_time"`
	LastEnergyReset      *time.Time `json:"last_energy_reset"`
	MiningRate           float64    `gorm:"default:0" json:"mining_rate"`
	Level                string     `gorm:"size:50;default:'basic'" json:"level"`
	JoinedAt             time.Time  `gorm:"autoCreateTime" json:"joined_at"`
}
