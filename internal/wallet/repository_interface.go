package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	AddTransaction(ctx context.Context, userID int, amountCents int64, txType string) error
	CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType string) (int, error)
	TopUp(ctx context.Context, userID int, amountCents int64) error
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
