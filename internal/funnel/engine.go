package funnel

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"musky-bot/internal/config"
	"musky-bot/internal/ledger"
	"musky-bot/internal/session"
)

const maxAddressLen = 100

// Oracle answers channel-membership queries. Errors fail closed.
type Oracle interface {
	IsMember(ctx context.Context, channelID string, userID int64) (bool, error)
}

// MarkupKind tells the transport layer which keyboard to attach.
type MarkupKind int

const (
	MarkupNone MarkupKind = iota
	MarkupContinue
	MarkupMainMenu
)

// Reply is one outbound message produced by the engine. An empty Text means
// nothing should be sent.
type Reply struct {
	Text   string
	Markup MarkupKind
}

// Engine drives a user through the verification funnel and the persistent
// menu. It is transport-free: the bot layer feeds it events and renders the
// replies it returns.
type Engine struct {
	oracle      Oracle
	ledger      *ledger.Ledger
	sessions    session.Store
	cfg         *config.Config
	botUsername string
	now         func() time.Time
}

func NewEngine(oracle Oracle, l *ledger.Ledger, sessions session.Store, cfg *config.Config) *Engine {
	return &Engine{
		oracle:   oracle,
		ledger:   l,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetBotUsername is called once the transport knows its own handle; it is
// embedded in referral links.
func (e *Engine) SetBotUsername(username string) {
	e.botUsername = username
}

// Start handles the /start command. payload is the deep-link argument, which
// may carry a referral token of the form ref_<id>.
func (e *Engine) Start(ctx context.Context, userID int64, username, payload string) ([]Reply, error) {
	user, err := e.ledger.Get(ctx, userID)
	if err != nil {
		return []Reply{{Text: tryAgainMsg}}, err
	}
	if user == nil {
		user, err = e.ledger.Create(ctx, userID, username)
		if err != nil {
			return []Reply{{Text: tryAgainMsg}}, err
		}
	}

	var replies []Reply

	sess, _, err := e.sessions.Load(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load session, starting fresh")
		sess = session.Session{}
	}

	if referrerID, ok := parseReferralToken(payload); ok && referrerID != userID {
		sess.PendingReferrerID = referrerID
		if referrer, err := e.ledger.Get(ctx, referrerID); err == nil && referrer != nil {
			name := referrer.Username
			if name == "" {
				name = "a MUSKY member"
			}
			replies = append(replies, Reply{Text: referrerGreetingMsg(name)})
		}
	}

	if user.VerificationComplete {
		sess.State = session.StateMenu
		sess.PendingReferrerID = 0
		if err := e.sessions.Save(ctx, userID, sess); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to save session")
		}
		replies = append(replies, Reply{Text: welcomeMenuMsg(e.cfg, user.Balance), Markup: MarkupMainMenu})
		return replies, nil
	}

	sess.State = session.StateAwaitingChannels
	if err := e.sessions.Save(ctx, userID, sess); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to save session")
	}
	replies = append(replies, Reply{Text: welcomeFunnelMsg(e.cfg), Markup: MarkupContinue})
	return replies, nil
}

// Continue handles the 🟢 Continue acknowledgment.
func (e *Engine) Continue(ctx context.Context, userID int64) (Reply, error) {
	sess, ok, err := e.sessions.Load(ctx, userID)
	if err != nil || !ok {
		return Reply{Text: requireStartMsg}, err
	}

	switch sess.State {
	case session.StateAwaitingChannels:
		return e.checkChannels(ctx, userID, sess)
	case session.StateAwaitingSocialVisit:
		// Self-report gate: no verification of the visit is possible.
		sess.State = session.StateAwaitingAddress
		if err := e.sessions.Save(ctx, userID, sess); err != nil {
			return Reply{Text: tryAgainMsg}, err
		}
		return Reply{Text: addressStepMsg}, nil
	case session.StateAwaitingAddress:
		return Reply{Text: addressStepMsg}, nil
	default:
		return Reply{}, nil
	}
}

func (e *Engine) checkChannels(ctx context.Context, userID int64, sess session.Session) (Reply, error) {
	var missing []string
	for _, ch := range e.cfg.Channels {
		member, err := e.oracle.IsMember(ctx, ch.ID, userID)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"channel": ch.Handle,
			}).Warn("Membership check failed")
			return Reply{Text: retryChannelsMsg, Markup: MarkupContinue}, nil
		}
		if !member {
			missing = append(missing, ch.Handle)
		}
	}

	if len(missing) > 0 {
		return Reply{Text: missingChannelsMsg(missing), Markup: MarkupContinue}, nil
	}

	sess.State = session.StateAwaitingSocialVisit
	if err := e.sessions.Save(ctx, userID, sess); err != nil {
		return Reply{Text: tryAgainMsg}, err
	}
	return Reply{Text: socialStepMsg(e.cfg), Markup: MarkupContinue}, nil
}

// Text handles free-text input: address capture in the funnel, commands in
// the menu.
func (e *Engine) Text(ctx context.Context, userID int64, text string) (Reply, error) {
	sess, ok, err := e.sessions.Load(ctx, userID)
	if err != nil {
		return Reply{Text: tryAgainMsg}, err
	}
	if !ok {
		// Session state lost. Verified users fall through to the menu,
		// everyone else restarts the funnel.
		user, err := e.ledger.Get(ctx, userID)
		if err != nil {
			return Reply{Text: tryAgainMsg}, err
		}
		if user == nil || !user.VerificationComplete {
			return Reply{Text: requireStartMsg}, nil
		}
		sess = session.Session{State: session.StateMenu}
		if err := e.sessions.Save(ctx, userID, sess); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to save session")
		}
	}

	switch sess.State {
	case session.StateAwaitingAddress:
		return e.submitAddress(ctx, userID, sess, text)
	case session.StateMenu:
		return e.handleMenu(ctx, userID, text)
	default:
		// Free text is meaningless before the address step.
		return Reply{}, nil
	}
}

func (e *Engine) submitAddress(ctx context.Context, userID int64, sess session.Session, address string) (Reply, error) {
	if utf8.RuneCountInString(address) > maxAddressLen {
		return Reply{Text: addressTooLongMsg}, nil
	}

	if err := e.ledger.CompleteVerification(ctx, userID, address); err != nil {
		return Reply{Text: tryAgainMsg}, err
	}

	referralText := ""
	if sess.PendingReferrerID != 0 {
		credited, err := e.ledger.CreditReferral(ctx, sess.PendingReferrerID, userID)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":     userID,
				"referrer_id": sess.PendingReferrerID,
			}).Error("Failed to credit referral")
		} else if credited {
			name := "a MUSKY member"
			if referrer, err := e.ledger.Get(ctx, sess.PendingReferrerID); err == nil && referrer != nil && referrer.Username != "" {
				name = referrer.Username
			}
			referralText = "\n\n🎁 Your referrer " + name + " received " +
				strconv.FormatInt(e.cfg.ReferralBonus, 10) + " MUSKY tokens!"
			logrus.WithFields(logrus.Fields{
				"referrer_id": sess.PendingReferrerID,
				"referred_id": userID,
			}).Info("Referral bonus credited")
		}
	}

	// Pending referrer is cleared regardless of the credit outcome.
	sess.PendingReferrerID = 0
	sess.State = session.StateMenu
	if err := e.sessions.Save(ctx, userID, sess); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to save session")
	}

	return Reply{Text: completionMsg(e.cfg.InitialBalance, referralText), Markup: MarkupMainMenu}, nil
}

func (e *Engine) handleMenu(ctx context.Context, userID int64, text string) (Reply, error) {
	user, err := e.ledger.Get(ctx, userID)
	if err != nil {
		return Reply{Text: tryAgainMsg}, err
	}
	if user == nil || !user.VerificationComplete {
		return Reply{Text: requireStartMsg}, nil
	}

	switch text {
	case CmdRefer:
		return Reply{Text: referMsg(e.cfg, e.botUsername, userID, user.ReferralCount)}, nil

	case CmdBalance:
		return Reply{Text: balanceMsg(e.cfg, user.Balance, user.ReferralCount, e.now())}, nil

	case CmdAbout:
		return Reply{Text: aboutMsg}, nil

	case CmdWithdraw:
		if user.Balance >= e.cfg.MinimumWithdraw {
			reference, err := e.ledger.RecordWithdrawal(ctx, userID, user.Balance)
			if err != nil {
				return Reply{Text: tryAgainMsg}, err
			}
			return Reply{Text: withdrawAcceptedMsg(reference)}, nil
		}
		return Reply{Text: withdrawShortfallMsg(e.cfg, user.Balance)}, nil
	}

	// Unrecognized text falls through to the transport's default behavior.
	return Reply{}, nil
}

// parseReferralToken extracts the referrer id from a ref_<id> deep link
// payload. Malformed tokens are silently ignored.
func parseReferralToken(payload string) (int64, bool) {
	if !strings.HasPrefix(payload, "ref_") {
		return 0, false
	}
	parts := strings.Split(payload, "_")
	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
