package repository

import (
	"context"

	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	CreateAccount(ctx context.Context, account *entity.LedgerAccount) error
	GetAccount(ctx context.Context, address string) (*entity.LedgerAccount, error)
	Credit(ctx context.Context, address string, amount uint64) error
}

type ledgerRepository struct{}

func NewLedgerRepository() *ledgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) CreateAccount(ctx context.Context, account *entity.LedgerAccount) error {
	return xcontext.DB(ctx).Create(account).Error
}

func (r *ledgerRepository) GetAccount(ctx context.Context, address string) (*entity.LedgerAccount, error) {
	var result entity.LedgerAccount
	if err := xcontext.DB(ctx).Take(&result, "address=?", address).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Credit adds amount to the account balance. A frozen account does not
// match the conditional update and the credit is reported as not found,
// which callers treat as the recipient rejecting the transfer.
func (r *ledgerRepository) Credit(ctx context.Context, address string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.LedgerAccount{}).
		Where("address=? AND frozen=?", address, false).
		Update("balance", gorm.Expr("balance+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
