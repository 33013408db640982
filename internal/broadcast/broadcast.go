package broadcast

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"musky-bot/internal/ledger"
)

// Sender delivers one message to one recipient. Errors are counted, never
// propagated to the caller.
type Sender interface {
	SendText(ctx context.Context, userID int64, text string) error
	SendPhoto(ctx context.Context, userID int64, fileID, caption string) error
}

// Result summarizes one fan-out run.
type Result struct {
	Total  int
	Sent   int
	Failed int
}

const defaultConcurrency = 8

// Broadcaster fans a message out to every known user with bounded
// concurrency. A single recipient's failure never aborts the run.
type Broadcaster struct {
	sender      Sender
	ledger      *ledger.Ledger
	concurrency int
}

func New(sender Sender, l *ledger.Ledger) *Broadcaster {
	return &Broadcaster{sender: sender, ledger: l, concurrency: defaultConcurrency}
}

// SendText broadcasts a text message to all users.
func (b *Broadcaster) SendText(ctx context.Context, text string) (Result, error) {
	return b.run(ctx, func(ctx context.Context, userID int64) error {
		return b.sender.SendText(ctx, userID, text)
	})
}

// SendPhoto broadcasts a photo with caption to all users.
func (b *Broadcaster) SendPhoto(ctx context.Context, fileID, caption string) (Result, error) {
	return b.run(ctx, func(ctx context.Context, userID int64) error {
		return b.sender.SendPhoto(ctx, userID, fileID, caption)
	})
}

func (b *Broadcaster) run(ctx context.Context, send func(ctx context.Context, userID int64) error) (Result, error) {
	users, err := b.ledger.All(ctx)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"run": runID, "total": len(users)})
	log.Info("Broadcast started")

	var sent, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, user := range users {
		userID := user.UserID
		g.Go(func() error {
			if err := send(gctx, userID); err != nil {
				failed.Add(1)
				logrus.WithError(err).WithFields(logrus.Fields{
					"run":     runID,
					"user_id": userID,
				}).Warn("Broadcast delivery failed")
			} else {
				sent.Add(1)
			}
			if done := sent.Load() + failed.Load(); done%10 == 0 {
				log.WithField("reached", done).Info("Broadcast progress")
			}
			return nil
		})
	}
	_ = g.Wait()

	result := Result{
		Total:  len(users),
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
	}
	log.WithFields(logrus.Fields{"sent": result.Sent, "failed": result.Failed}).Info("Broadcast completed")
	return result, nil
}
