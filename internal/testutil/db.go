package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"musky-bot/internal/config"
	"musky-bot/internal/database"
)

// NewTestDB opens an isolated in-memory sqlite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// TestConfig returns a config with the reference values used across tests.
func TestConfig() *config.Config {
	return &config.Config{
		Channels: []config.Channel{
			{ID: "-1002251074450", Handle: "@musky_on_sol"},
			{ID: "-1002498998240", Handle: "@Airdrop_Saggitarus"},
		},
		GroupLink:   "@MUSKY_GROUPCHAT",
		TwitterLink: "https://x.com/Musky_On_solana",

		InitialBalance:  1000,
		ReferralBonus:   2000,
		MinimumWithdraw: 7000,
		LaunchDate:      time.Now().Add(10 * 24 * time.Hour),

		TapReward:         1,
		TapCooldown:       4 * time.Hour,
		MuskyToSolanaRate: 0.000002,
		MinConversion:     10000,
		SpinEnergyCost:    10,
		MaxEnergy:         100,

		AdminID: 99,
	}
}
