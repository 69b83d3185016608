package payout

import (
	"testing"

	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/internal/repository"
	"github.com/raffle-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_ledgerPayer_Transfer(t *testing.T) {
	ctx := testutil.MockContext()
	ledgerRepo := repository.NewLedgerRepository()
	payer := NewLedgerPayer(ledgerRepo)

	// Unknown recipients get an account created with the amount.
	require.NoError(t, payer.Transfer(ctx, "winner", 400))

	account, err := ledgerRepo.GetAccount(ctx, "winner")
	require.NoError(t, err)
	require.Equal(t, uint64(400), account.Balance)

	// Existing accounts are credited.
	require.NoError(t, payer.Transfer(ctx, "winner", 100))

	account, err = ledgerRepo.GetAccount(ctx, "winner")
	require.NoError(t, err)
	require.Equal(t, uint64(500), account.Balance)
}

func Test_ledgerPayer_Transfer_frozenAccount(t *testing.T) {
	ctx := testutil.MockContext()
	ledgerRepo := repository.NewLedgerRepository()
	payer := NewLedgerPayer(ledgerRepo)

	err := ledgerRepo.CreateAccount(ctx, &entity.LedgerAccount{Address: "winner", Frozen: true})
	require.NoError(t, err)

	require.ErrorIs(t, payer.Transfer(ctx, "winner", 400), ErrRejected)

	account, err := ledgerRepo.GetAccount(ctx, "winner")
	require.NoError(t, err)
	require.Equal(t, uint64(0), account.Balance)
}
