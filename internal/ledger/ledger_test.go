package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musky-bot/internal/models"
	"musky-bot/internal/spin"
	"musky-bot/internal/testutil"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(testutil.NewTestDB(t), testutil.TestConfig())
}

func TestGetAbsentUser(t *testing.T) {
	l := newTestLedger(t)

	user, err := l.Get(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	user, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(0), user.Balance)
	assert.Equal(t, 0, user.ReferralCount)
	assert.False(t, user.VerificationComplete)

	// Mutate, then create again: the second create must be a no-op.
	require.NoError(t, l.Update(ctx, 1, map[string]any{"balance": int64(500)}))
	again, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), again.Balance)
}

func TestUpdateMissingUser(t *testing.T) {
	l := newTestLedger(t)

	err := l.Update(context.Background(), 404, map[string]any{"balance": int64(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteVerification(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)

	require.NoError(t, l.CompleteVerification(ctx, 1, "So11111111111111111111111111111111111111112"))

	user, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, user.VerificationComplete)
	assert.Equal(t, int64(1000), user.Balance)
	assert.Equal(t, "So11111111111111111111111111111111111111112", user.SolanaAddress)

	// Partial updates to other fields must not revert the flag.
	require.NoError(t, l.Update(ctx, 1, map[string]any{"username": "alice2"}))
	user, err = l.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, user.VerificationComplete)
}

func TestSetPayoutAddress(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)

	require.NoError(t, l.SetPayoutAddress(ctx, 1, "addr-one"))

	user, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, user.VerificationComplete)
	assert.Equal(t, int64(1000), user.Balance)
	assert.Equal(t, "addr-one", user.SolanaAddress)

	// A verified user changing their address keeps what they earned.
	require.NoError(t, l.Update(ctx, 1, map[string]any{"balance": int64(50000)}))
	require.NoError(t, l.SetPayoutAddress(ctx, 1, "addr-two"))

	user, err = l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), user.Balance)
	assert.Equal(t, "addr-two", user.SolanaAddress)
	assert.True(t, user.VerificationComplete)
}

func TestSetPayoutAddressMissingUser(t *testing.T) {
	l := newTestLedger(t)

	err := l.SetPayoutAddress(context.Background(), 404, "addr")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditReferralOncePerReferredUser(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 10, "referrer")
	require.NoError(t, err)

	credited, err := l.CreditReferral(ctx, 10, 20)
	require.NoError(t, err)
	assert.True(t, credited)

	// Same referred user again: no double credit.
	credited, err = l.CreditReferral(ctx, 10, 20)
	require.NoError(t, err)
	assert.False(t, credited)

	referrer, err := l.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, referrer.ReferralCount)
	assert.Equal(t, int64(2000), referrer.Balance)

	// A different referred user accumulates, never resets.
	credited, err = l.CreditReferral(ctx, 10, 30)
	require.NoError(t, err)
	assert.True(t, credited)

	referrer, err = l.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, referrer.ReferralCount)
	assert.Equal(t, int64(4000), referrer.Balance)
}

func TestCreditReferralMissingReferrer(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.CreditReferral(context.Background(), 404, 20)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddBalance(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)

	newBalance, err := l.AddBalance(ctx, 1, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), newBalance)

	_, err = l.AddBalance(ctx, 404, 250)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTap(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	now := time.Now()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)

	user, err := l.Tap(ctx, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.Balance)
	assert.Equal(t, 99, user.Energy)

	// Second tap inside the cooldown window is denied, state unchanged.
	_, err = l.Tap(ctx, 1, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrTapCooldown)

	after, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.Balance)
	assert.Equal(t, 99, after.Energy)

	// After the cooldown the tap goes through again.
	user, err = l.Tap(ctx, 1, now.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.Balance)
}

func TestTapWithoutEnergy(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, l.Update(ctx, 1, map[string]any{"energy": 0}))

	_, err = l.Tap(ctx, 1, time.Now())
	assert.ErrorIs(t, err, ErrNoEnergy)
}

func TestConvert(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, l.Update(ctx, 1, map[string]any{"balance": int64(20000)}))

	_, err = l.Convert(ctx, 1, 5000)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	user, err := l.Convert(ctx, 1, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), user.Balance)
	assert.InDelta(t, 0.02, user.SolanaBalance, 1e-9)

	_, err = l.Convert(ctx, 1, 15000)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestPurchaseEnergyCapped(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, l.Update(ctx, 1, map[string]any{"energy": 80}))

	newEnergy, err := l.PurchaseEnergy(ctx, 1, 50, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100, newEnergy)
}

func TestApplySpin(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)

	user, err := l.ApplySpin(ctx, 1, spin.Prize{Type: spin.PrizeMusky, Amount: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Balance)
	assert.Equal(t, 90, user.Energy)

	// Energy prizes net against the spin cost.
	user, err = l.ApplySpin(ctx, 1, spin.Prize{Type: spin.PrizeEnergy, Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, 130, user.Energy)

	user, err = l.ApplySpin(ctx, 1, spin.Prize{Type: spin.PrizeSolana, Amount: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, user.SolanaBalance, 1e-9)

	var records []models.SpinRecord
	require.NoError(t, l.db.Where("user_id = ?", 1).Order("id").Find(&records).Error)
	require.Len(t, records, 3)
	assert.Equal(t, "MUSKY", records[0].PrizeType)
	assert.Equal(t, "ENERGY", records[1].PrizeType)
	assert.Equal(t, "SOL", records[2].PrizeType)
}

func TestApplySpinEnergyGate(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, l.Update(ctx, 1, map[string]any{"energy": 9}))

	_, err = l.ApplySpin(ctx, 1, spin.Prize{Type: spin.PrizeMusky, Amount: 1000})
	assert.ErrorIs(t, err, ErrNoEnergy)
}

func TestLeaderboardOrder(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for i, balance := range []int64{100, 5000, 300} {
		_, err := l.Create(ctx, int64(i+1), "user")
		require.NoError(t, err)
		require.NoError(t, l.Update(ctx, int64(i+1), map[string]any{"balance": balance}))
	}

	users, err := l.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(5000), users[0].Balance)
	assert.Equal(t, int64(300), users[1].Balance)
}

func TestRegenerateEnergy(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	now := time.Now()

	_, err := l.Create(ctx, 1, "stale")
	require.NoError(t, err)
	old := now.Add(-48 * time.Hour)
	require.NoError(t, l.Update(ctx, 1, map[string]any{"energy": 10, "last_energy_reset": old}))

	_, err = l.Create(ctx, 2, "fresh")
	require.NoError(t, err)
	require.NoError(t, l.Update(ctx, 2, map[string]any{"energy": 10, "last_energy_reset": now}))

	touched, err := l.RegenerateEnergy(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	stale, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, stale.Energy)

	fresh, err := l.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Energy)
}

func TestReferralsOf(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, 10, "referrer")
	require.NoError(t, err)
	_, err = l.Create(ctx, 20, "friend-a")
	require.NoError(t, err)
	_, err = l.Create(ctx, 30, "friend-b")
	require.NoError(t, err)

	_, err = l.CreditReferral(ctx, 10, 20)
	require.NoError(t, err)
	_, err = l.CreditReferral(ctx, 10, 30)
	require.NoError(t, err)

	referred, err := l.ReferralsOf(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, referred, 2)
}
