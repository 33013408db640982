package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"musky-bot/internal/bot"
	"musky-bot/internal/broadcast"
	"musky-bot/internal/config"
	"musky-bot/internal/database"
	"musky-bot/internal/funnel"
	"musky-bot/internal/ledger"
	"musky-bot/internal/session"
	"musky-bot/internal/worker"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.BotToken == "" {
		logrus.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logrus.Fatalf("Could not connect to database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		logrus.Fatalf("Could not connect to redis: %v", err)
	}

	userLedger := ledger.New(db, cfg)
	sessions := session.NewRedisStore(rdb)

	tgBot, err := bot.NewBot(cfg)
	if err != nil {
		logrus.Fatalf("Could not create bot: %v", err)
	}

	oracle := bot.NewMembershipOracle(tgBot.Instance)
	tgBot.Engine = funnel.NewEngine(oracle, userLedger, sessions, cfg)
	tgBot.Ledger = userLedger

	sender := bot.NewTelegramSender(tgBot.Instance)
	tgBot.Broadcaster = broadcast.New(sender, userLedger)

	regen := worker.NewRegenerator(userLedger, rdb, sender, cfg)
	go regen.Start(context.Background())

	logrus.Info("Bot is starting...")
	if err := tgBot.Start(); err != nil {
		logrus.Fatalf("Bot stopped: %v", err)
	}
}
