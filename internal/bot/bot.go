package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/sirupsen/logrus"

	"musky-bot/internal/broadcast"
	"musky-bot/internal/config"
	"musky-bot/internal/funnel"
	"musky-bot/internal/ledger"
)

type Bot struct {
	Instance    *telego.Bot
	Engine      *funnel.Engine
	Broadcaster *broadcast.Broadcaster
	Ledger      *ledger.Ledger
	AdminID     int64
}

func NewBot(cfg *config.Config) (*Bot, error) {
	tgBot, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		Instance: tgBot,
		AdminID:  cfg.AdminID,
	}, nil
}

func (b *Bot) Start() error {
	if info, err := b.Instance.GetMe(context.Background()); err == nil {
		b.Engine.SetBotUsername(info.Username)
	} else {
		logrus.WithError(err).Warn("Failed to resolve bot username, referral links will be incomplete")
	}

	updates, err := b.Instance.UpdatesViaLongPolling(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.Instance, updates)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	// /start command, with optional ref_<id> deep-link payload
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		userID := message.From.ID

		payload := ""
		if parts := strings.Split(message.Text, " "); len(parts) > 1 {
			payload = parts[1]
		}

		replies, err := b.Engine.Start(ctx.Context(), userID, message.From.Username, payload)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Start failed")
		}
		for _, reply := range replies {
			b.send(ctx.Context(), message.Chat.ID, reply)
		}
		return nil
	}, th.CommandEqual("start"))

	// 🟢 Continue button
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		userID := callback.From.ID

		reply, err := b.Engine.Continue(ctx.Context(), userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Continue failed")
		}
		b.send(ctx.Context(), userID, reply)
		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))
		return nil
	}, th.CallbackDataEqual("continue"))

	// /broadcast <message>, admin only
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if message.From.ID != b.AdminID {
			b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: "⛔️ This command is only available to administrators."})
			return nil
		}

		text := strings.TrimSpace(strings.TrimPrefix(message.Text, "/broadcast"))
		if text == "" {
			b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: broadcastUsageMsg})
			return nil
		}

		result, err := b.Broadcaster.SendText(ctx.Context(), "📢 Broadcast Message:\n\n"+text)
		if err != nil {
			logrus.WithError(err).Error("Broadcast failed")
			b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: "❌ Broadcast failed. Please try again."})
			return nil
		}
		b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: broadcastSummaryMsg(result)})
		return nil
	}, th.CommandEqual("broadcast"))

	// /stats, admin only
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if message.From.ID != b.AdminID {
			b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: "⛔️ This command is only available to administrators."})
			return nil
		}

		count, err := b.Ledger.Count(ctx.Context())
		if err != nil {
			logrus.WithError(err).Error("Stats query failed")
			b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: "❌ Failed to load stats. Please try again."})
			return nil
		}
		b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: fmt.Sprintf("📊 Bot Stats\n\nTotal users: %d", count)})
		return nil
	}, th.CommandEqual("stats"))

	// Photo with a /broadcast caption, admin only
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if message.From.ID != b.AdminID {
			return nil
		}

		photo := message.Photo[len(message.Photo)-1] // highest resolution last
		caption := strings.TrimSpace(strings.TrimPrefix(message.Caption, "/broadcast"))

		result, err := b.Broadcaster.SendPhoto(ctx.Context(), photo.FileID, "📢 Broadcast Message:\n\n"+caption)
		if err != nil {
			logrus.WithError(err).Error("Photo broadcast failed")
			b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: "❌ Broadcast failed. Please try again."})
			return nil
		}
		b.send(ctx.Context(), message.Chat.ID, funnel.Reply{Text: broadcastSummaryMsg(result)})
		return nil
	}, photoWithBroadcastCaption)

	// Free-text input: address capture and menu commands
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		userID := message.From.ID

		reply, err := b.Engine.Text(ctx.Context(), userID, message.Text)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Text handling failed")
		}
		b.send(ctx.Context(), message.Chat.ID, reply)
		return nil
	}, th.AnyMessageWithText())

	return handler.Start()
}

func photoWithBroadcastCaption(ctx context.Context, update telego.Update) bool {
	return update.Message != nil &&
		len(update.Message.Photo) > 0 &&
		strings.HasPrefix(update.Message.Caption, "/broadcast")
}

// send renders one engine reply. Delivery errors are logged, never returned.
func (b *Bot) send(ctx context.Context, chatID int64, reply funnel.Reply) {
	if reply.Text == "" {
		return
	}

	msg := tu.Message(tu.ID(chatID), reply.Text)
	switch reply.Markup {
	case funnel.MarkupContinue:
		msg = msg.WithReplyMarkup(continueKeyboard())
	case funnel.MarkupMainMenu:
		msg = msg.WithReplyMarkup(mainMenuKeyboard())
	}

	if _, err := b.Instance.SendMessage(ctx, msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Failed to send message")
	}
}

func continueKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🟢 Continue").WithCallbackData("continue"),
		),
	)
}

func mainMenuKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton(funnel.CmdRefer),
			tu.KeyboardButton(funnel.CmdBalance),
		),
		tu.KeyboardRow(
			tu.KeyboardButton(funnel.CmdAbout),
			tu.KeyboardButton(funnel.CmdWithdraw),
		),
	).WithResizeKeyboard()
}

const broadcastUsageMsg = `Please use one of these formats:

1. For text: /broadcast <message>
2. For formatted text: Use HTML formatting in your message
3. For images: Send an image with a /broadcast <caption> caption

HTML Formatting Examples:
• Bold: <b>text</b>
• Italic: <i>text</i>
• Code: <code>text</code>
• Link: <a href='URL'>text</a>`

func broadcastSummaryMsg(result broadcast.Result) string {
	return fmt.Sprintf(
		"✅ Broadcast completed!\n\nTotal users: %d\nSuccessfully sent: %d\nFailed: %d",
		result.Total, result.Sent, result.Failed,
	)
}
