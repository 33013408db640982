package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"musky-bot/internal/broadcast"
	"musky-bot/internal/config"
	"musky-bot/internal/ledger"
)

const energyResetInterval = 24 * time.Hour

// Regenerator periodically refills user energy and, once the launch date is
// reached, notifies every user exactly once.
type Regenerator struct {
	Ledger *ledger.Ledger
	Redis  *redis.Client
	Sender broadcast.Sender
	Cfg    *config.Config
}

func NewRegenerator(l *ledger.Ledger, rdb *redis.Client, sender broadcast.Sender, cfg *config.Config) *Regenerator {
	return &Regenerator{
		Ledger: l,
		Redis:  rdb,
		Sender: sender,
		Cfg:    cfg,
	}
}

func (r *Regenerator) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	logrus.Info("Background energy worker started")

	// Run once at start
	r.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Regenerator) cycle(ctx context.Context) {
	now := time.Now()

	touched, err := r.Ledger.RegenerateEnergy(ctx, now.Add(-energyResetInterval), now)
	if err != nil {
		logrus.WithError(err).Error("Energy regeneration failed")
	} else if touched > 0 {
		logrus.WithField("users", touched).Info("Energy regenerated")
	}

	if now.After(r.Cfg.LaunchDate) {
		r.notifyLaunch(ctx)
	}
}

func (r *Regenerator) notifyLaunch(ctx context.Context) {
	users, err := r.Ledger.All(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users for launch notification")
		return
	}

	for _, user := range users {
		key := fmt.Sprintf("notified_launch_%d", user.UserID)
		exists, err := r.Redis.Exists(ctx, key).Result()
		if err != nil || exists > 0 {
			continue
		}

		err = r.Sender.SendText(ctx, user.UserID,
			"🚀 MUSKY has launched! Withdrawal requests are now being processed. Check 💰 Balance for details.")
		if err != nil {
			logrus.WithError(err).WithField("user_id", user.UserID).Warn("Failed to send launch notification")
			continue
		}
		r.Redis.Set(ctx, key, "true", 0)
	}
}
