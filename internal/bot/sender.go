package bot

import (
	"context"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

const sendTimeout = 10 * time.Second

// TelegramSender adapts the bot instance to the broadcast.Sender contract.
type TelegramSender struct {
	bot *telego.Bot
}

func NewTelegramSender(bot *telego.Bot) *TelegramSender {
	return &TelegramSender{bot: bot}
}

func (s *TelegramSender) SendText(ctx context.Context, userID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(userID), text).WithParseMode(telego.ModeHTML))
	return err
}

func (s *TelegramSender) SendPhoto(ctx context.Context, userID int64, fileID, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.bot.SendPhoto(ctx, tu.Photo(tu.ID(userID), tu.FileFromID(fileID)).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML))
	return err
}
