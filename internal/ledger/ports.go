package ledger

import (
	"context"
	"time"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// Repositories report a missing row with model.ErrNotFound and a unique-key
// violation on Create with model.ErrDuplicate.

// TransactionRepository persists ledger transactions, unique per (owner, external id).
type TransactionRepository interface {
	FindByExternalID(ctx context.Context, ownerID, externalID string) (*model.LedgerTransaction, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.LedgerTransaction, error)
	Create(ctx context.Context, t *model.LedgerTransaction) error
	Update(ctx context.Context, t *model.LedgerTransaction) error
}

// AccountRepository persists accounts, unique per (owner, number).
type AccountRepository interface {
	FindByOwnerAndNumber(ctx context.Context, ownerID, number string) (*model.Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Account, error)
	Create(ctx context.Context, a *model.Account) error
	Update(ctx context.Context, a *model.Account) error
}

// BalanceRepository persists balance snapshots, unique per (account, date).
type BalanceRepository interface {
	FindByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*model.AccountBalance, error)
	ListByAccount(ctx context.Context, accountID string) ([]model.AccountBalance, error)
	Create(ctx context.Context, b *model.AccountBalance) error
	Update(ctx context.Context, b *model.AccountBalance) error
}

// UploadRepository records uploaded files.
type UploadRepository interface {
	Create(ctx context.Context, f *model.UploadedFile) error
	Update(ctx context.Context, f *model.UploadedFile) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.UploadedFile, error)
}

// Stores bundles the repositories the engine writes to. Uploads is optional.
type Stores struct {
	Transactions TransactionRepository
	Accounts     AccountRepository
	Balances     BalanceRepository
	Uploads      UploadRepository
}
