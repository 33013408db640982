package main

import (
	"github.com/sirupsen/logrus"

	"musky-bot/internal/api"
	"musky-bot/internal/broadcast"
	"musky-bot/internal/config"
	"musky-bot/internal/database"
	"musky-bot/internal/ledger"
	"musky-bot/internal/telegram"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logrus.Fatalf("Could not connect to database: %v", err)
	}

	userLedger := ledger.New(db, cfg)

	tgClient := telegram.NewClient(cfg.BotToken)
	broadcaster := broadcast.New(tgClient, userLedger)

	server := api.NewServer(userLedger, cfg, broadcaster)

	logrus.WithField("addr", cfg.APIListenAddr).Info("Reward service starting")
	if err := server.Listen(cfg.APIListenAddr); err != nil {
		logrus.Fatalf("Server stopped: %v", err)
	}
}
