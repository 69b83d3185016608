package payout

import (
	"context"
	"errors"

	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/internal/repository"
	"gorm.io/gorm"
)

// ledgerPayer credits winners on the service's own ledger. Unknown
// recipients get an account created on the fly; frozen accounts reject
// the credit.
type ledgerPayer struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerPayer(ledgerRepo repository.LedgerRepository) *ledgerPayer {
	return &ledgerPayer{ledgerRepo: ledgerRepo}
}

func (p *ledgerPayer) Transfer(ctx context.Context, to string, amount uint64) error {
	err := p.ledgerRepo.Credit(ctx, to, amount)
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	_, err = p.ledgerRepo.GetAccount(ctx, to)
	if err == nil {
		// The account exists but did not accept the credit.
		return ErrRejected
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return p.ledgerRepo.CreateAccount(ctx, &entity.LedgerAccount{
		Address: to,
		Balance: amount,
	})
}
