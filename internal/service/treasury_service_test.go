package service

import (
	"context"
	"testing"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTreasury(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.trsyRepo.Create(ctx, &domain.TreasurySnapshot{
		Currency:    "USD",
		HotBalance:  decimal.RequireFromString("150234.88"),
		ColdBalance: decimal.RequireFromString("1200000"),
		Address:     "CashApp Hot Wallet",
	}))
	require.NoError(t, env.trsyRepo.Create(ctx, &domain.TreasurySnapshot{
		Currency:    "USDT",
		HotBalance:  decimal.RequireFromString("345890.12"),
		ColdBalance: decimal.RequireFromString("2500000"),
		Address:     "TWdjuvPseXhN29KMYGdARD8Ep6kohotwallet",
	}))
}

func TestTreasuryService_Snapshot(t *testing.T) {
	env := newTestEnv(t)
	seedTreasury(t, env)

	snaps, err := env.treasury.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// Seeded order is preserved.
	assert.Equal(t, "USD", snaps[0].Currency)
	assert.Equal(t, "USDT", snaps[1].Currency)
	assert.True(t, snaps[0].TotalBalance().Equal(decimal.RequireFromString("1350234.88")))
}

func TestTreasuryService_AdminWithdraw(t *testing.T) {
	env := newTestEnv(t)
	seedTreasury(t, env)

	txn, err := env.treasury.AdminWithdraw(context.Background(), ports.AdminWithdrawRequest{
		Currency:           "USD",
		Amount:             decimal.NewFromInt(50000),
		DestinationAddress: "ext-bank-001",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionTypeAdminWithdrawal, txn.Type)
	assert.Equal(t, domain.TransactionStatusPending, txn.Status)
	assert.Equal(t, "to ext-bank-001", txn.Details)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(-50000)))

	// The hot balance is reserved immediately, while the entry is Pending.
	snaps, err := env.treasury.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snaps[0].HotBalance.Equal(decimal.RequireFromString("100234.88")))

	payouts, err := env.treasury.Withdrawals(context.Background())
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, txn.ID, payouts[0].ID)
}

func TestTreasuryService_AdminWithdraw_Invalid(t *testing.T) {
	env := newTestEnv(t)
	seedTreasury(t, env)
	ctx := context.Background()

	_, err := env.treasury.AdminWithdraw(ctx, ports.AdminWithdrawRequest{
		Currency: "USD", Amount: decimal.Zero, DestinationAddress: "x",
	})
	requireAppError(t, err, "LED_001")

	_, err = env.treasury.AdminWithdraw(ctx, ports.AdminWithdrawRequest{
		Currency: "USD", Amount: decimal.NewFromInt(10),
	})
	requireAppError(t, err, "LED_001")

	_, err = env.treasury.AdminWithdraw(ctx, ports.AdminWithdrawRequest{
		Currency: "BTC", Amount: decimal.NewFromInt(10), DestinationAddress: "x",
	})
	requireAppError(t, err, "LED_003")

	// 200000 exceeds the 150234.88 hot balance; the cold balance never
	// backs a payout.
	_, err = env.treasury.AdminWithdraw(ctx, ports.AdminWithdrawRequest{
		Currency: "USD", Amount: decimal.NewFromInt(200000), DestinationAddress: "x",
	})
	requireAppError(t, err, "LED_002")
}

func TestTreasuryService_SettleFailed_RestoresHotBalance(t *testing.T) {
	env := newTestEnv(t)
	seedTreasury(t, env)
	ctx := context.Background()

	txn, err := env.treasury.AdminWithdraw(ctx, ports.AdminWithdrawRequest{
		Currency:           "USDT",
		Amount:             decimal.NewFromInt(90),
		DestinationAddress: "TExternalCold",
	})
	require.NoError(t, err)

	settled, err := env.ledger.Settle(ctx, txn.ID, domain.TransactionStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, settled.Status)

	snaps, err := env.treasury.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snaps[1].HotBalance.Equal(decimal.RequireFromString("345890.12")))
}

func TestTreasuryService_SettleCompleted_KeepsReservation(t *testing.T) {
	env := newTestEnv(t)
	seedTreasury(t, env)
	ctx := context.Background()

	txn, err := env.treasury.AdminWithdraw(ctx, ports.AdminWithdrawRequest{
		Currency:           "USD",
		Amount:             decimal.NewFromInt(1000),
		DestinationAddress: "ext-bank-001",
	})
	require.NoError(t, err)

	_, err = env.ledger.Settle(ctx, txn.ID, domain.TransactionStatusCompleted)
	require.NoError(t, err)

	// Completing must not debit again.
	snaps, err := env.treasury.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snaps[0].HotBalance.Equal(decimal.RequireFromString("149234.88")))

	_, err = env.ledger.Settle(ctx, txn.ID, domain.TransactionStatusCompleted)
	requireAppError(t, err, "LED_004")
}
