package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"musky-bot/internal/config"
	"musky-bot/internal/models"
	"musky-bot/internal/spin"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrTapCooldown         = errors.New("tap cooldown not finished")
	ErrNoEnergy            = errors.New("not enough energy")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below minimum")
)

const callTimeout = 5 * time.Second

// Ledger is the single source of truth for user balances, referral counts,
// verification status and payout addresses.
type Ledger struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Ledger {
	return &Ledger{db: db, cfg: cfg}
}

func (l *Ledger) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	return l.db.WithContext(ctx), cancel
}

// Get returns the user record, or (nil, nil) when no record exists.
func (l *Ledger) Get(ctx context.Context, userID int64) (*models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var user models.User
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &user, nil
}

// Create inserts a zeroed record if absent. A second call is a no-op.
func (l *Ledger) Create(ctx context.Context, userID int64, username string) (*models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	user := models.User{UserID: userID, Username: username}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	return l.Get(ctx, userID)
}

// Update applies a partial field merge to an existing record.
func (l *Ledger) Update(ctx context.Context, userID int64, fields map[string]any) error {
	db, cancel := l.session(ctx)
	defer cancel()

	result := db.Model(&models.User{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteVerification stores the payout address, flips the one-way
// verification flag and grants the initial balance in one transaction.
func (l *Ledger) CompleteVerification(ctx context.Context, userID int64, address string) error {
	db, cancel := l.session(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]any{
			"solana_address":        address,
			"verification_complete": true,
			"balance":               l.cfg.InitialBalance,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to complete verification for %d: %w", userID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SetPayoutAddress updates the payout address and flips the verification
// flag. The initial balance is granted only when the user was not yet
// verified, so re-submitting an address never resets earned tokens.
func (l *Ledger) SetPayoutAddress(ctx context.Context, userID int64, address string) error {
	db, cancel := l.session(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fields := map[string]any{
			"solana_address":        address,
			"verification_complete": true,
		}
		if !user.VerificationComplete {
			fields["balance"] = l.cfg.InitialBalance
		}
		if err := tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to set payout address for %d: %w", userID, err)
		}
		return nil
	})
}

// CreditReferral applies the one-time referral bonus to the referrer. The
// referral row carries a unique index on the referred user, so a repeated
// credit for the same referred user reports false without touching counters.
// Counter updates are SQL increments, not read-then-write.
func (l *Ledger) CreditReferral(ctx context.Context, referrerID, referredID int64) (bool, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	credited := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var referrer models.User
		if err := tx.First(&referrer, "user_id = ?", referrerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		ref := models.Referral{
			ReferrerID: referrerID,
			ReferredID: referredID,
			Bonus:      l.cfg.ReferralBonus,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Referred user already credited someone.
			return nil
		}

		if err := tx.Model(&models.User{}).Where("user_id = ?", referrerID).Updates(map[string]any{
			"referral_count": gorm.Expr("referral_count + 1"),
			"balance":        gorm.Expr("balance + ?", l.cfg.ReferralBonus),
		}).Error; err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to credit referral to %d: %w", referrerID, err)
	}
	return credited, nil
}

// AddBalance credits balance by amount (mining updates). Negative amounts
// are rejected by the HTTP layer.
func (l *Ledger) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	result := db.Model(&models.User{}).Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to add balance for %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	user, err := l.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// Tap applies one mining tap: cooldown and energy gates, then reward.
func (l *Ledger) Tap(ctx context.Context, userID int64, now time.Time) (*models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.LastTapTime != nil && now.Sub(*user.LastTapTime) < l.cfg.TapCooldown {
			return ErrTapCooldown
		}
		if user.Energy <= 0 {
			return ErrNoEnergy
		}

		user.Balance += l.cfg.TapReward
		user.Energy--
		user.LastTapTime = &now
		return tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]any{
			"balance":       user.Balance,
			"energy":        user.Energy,
			"last_tap_time": now,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTapCooldown) || errors.Is(err, ErrNoEnergy) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to process tap for %d: %w", userID, err)
	}
	return &user, nil
}

// Convert exchanges MUSKY balance for secondary-currency balance at the
// configured fixed rate.
func (l *Ledger) Convert(ctx context.Context, userID int64, amount int64) (*models.User, error) {
	if amount < l.cfg.MinConversion {
		return nil, ErrBelowMinimum
	}

	db, cancel := l.session(ctx)
	defer cancel()

	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Balance < amount {
			return ErrInsufficientBalance
		}

		user.Balance -= amount
		user.SolanaBalance += float64(amount) * l.cfg.MuskyToSolanaRate
		return tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]any{
			"balance":        user.Balance,
			"solana_balance": user.SolanaBalance,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientBalance) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to convert for %d: %w", userID, err)
	}
	return &user, nil
}

// PurchaseEnergy tops energy up, capped at the configured maximum.
func (l *Ledger) PurchaseEnergy(ctx context.Context, userID int64, amount int, now time.Time) (int, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	newEnergy := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		newEnergy = user.Energy + amount
		if newEnergy > l.cfg.MaxEnergy {
			newEnergy = l.cfg.MaxEnergy
		}
		return tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]any{
			"energy":            newEnergy,
			"last_energy_reset": now,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to purchase energy for %d: %w", userID, err)
	}
	return newEnergy, nil
}

// ApplySpin deducts the spin energy cost, applies the drawn prize and appends
// the spin history row in one transaction.
func (l *Ledger) ApplySpin(ctx context.Context, userID int64, prize spin.Prize) (*models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Energy < l.cfg.SpinEnergyCost {
			return ErrNoEnergy
		}

		user.Energy -= l.cfg.SpinEnergyCost
		switch prize.Type {
		case spin.PrizeSolana:
			user.SolanaBalance += prize.Amount
		case spin.PrizeMusky:
			user.Balance += int64(prize.Amount)
		case spin.PrizeEnergy:
			user.Energy += int(prize.Amount)
		}

		if err := tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]any{
			"energy":         user.Energy,
			"balance":        user.Balance,
			"solana_balance": user.SolanaBalance,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&models.SpinRecord{
			UserID:    userID,
			PrizeType: string(prize.Type),
			Amount:    prize.Amount,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoEnergy) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to apply spin for %d: %w", userID, err)
	}
	return &user, nil
}

// RecordWithdrawal stores an accepted withdrawal request and returns its
// reference. Tokens are distributed out-of-band after launch.
func (l *Ledger) RecordWithdrawal(ctx context.Context, userID int64, amount int64) (string, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	req := models.WithdrawalRequest{
		Reference: uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
	}
	if err := db.Create(&req).Error; err != nil {
		return "", fmt.Errorf("failed to record withdrawal for %d: %w", userID, err)
	}
	return req.Reference, nil
}

// RegenerateEnergy refills energy to the configured maximum for users whose
// last reset is older than cutoff (or never set). Returns the rows touched.
func (l *Ledger) RegenerateEnergy(ctx context.Context, cutoff, now time.Time) (int64, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	result := db.Model(&models.User{}).
		Where("energy < ?", l.cfg.MaxEnergy).
		Where("last_energy_reset IS NULL OR last_energy_reset < ?", cutoff).
		Updates(map[string]any{
			"energy":            l.cfg.MaxEnergy,
			"last_energy_reset": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to regenerate energy: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// All returns every known user. Used by the broadcast fan-out.
func (l *Ledger) All(ctx context.Context) ([]models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (l *Ledger) Count(ctx context.Context) (int64, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Leaderboard returns the top n users by balance.
func (l *Ledger) Leaderboard(ctx context.Context, n int) ([]models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var users []models.User
	if err := db.Order("balance DESC").Limit(n).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return users, nil
}

// ReferralsOf lists the users referred by referrerID.
func (l *Ledger) ReferralsOf(ctx context.Context, referrerID int64) ([]models.User, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var users []models.User
	err := db.Joins("JOIN referrals ON referrals.referred_id = users.user_id").
		Where("referrals.referrer_id = ?", referrerID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals of %d: %w", referrerID, err)
	}
	return users, nil
}
