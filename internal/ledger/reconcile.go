package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

type outcome int

const (
	outcomeImported outcome = iota
	outcomeUpdated
	outcomeSkipped
)

func (o outcome) String() string {
	switch o {
	case outcomeImported:
		return "imported"
	case outcomeUpdated:
		return "updated"
	default:
		return "skipped"
	}
}

// tally accumulates the outcome of one import. It is passed by value.
type tally struct {
	imported int
	updated  int
	skipped  int
	errors   []string
}

func (t tally) add(o outcome) tally {
	switch o {
	case outcomeImported:
		t.imported++
	case outcomeUpdated:
		t.updated++
	case outcomeSkipped:
		t.skipped++
	}
	return t
}

func (t tally) fail(msg string) tally {
	t.errors = append(t.errors[:len(t.errors):len(t.errors)], msg)
	return t
}

func (t tally) messages() []string {
	if t.errors == nil {
		return []string{}
	}
	return t.errors
}

// reconcile upserts one transaction by (owner, external id).
func (e *Engine) reconcile(ctx context.Context, ownerID, accountID, fileID string, txn model.NormalizedTransaction) (outcome, error) {
	if err := validationError(txn); err != nil {
		return 0, err
	}

	repo := e.stores.Transactions
	existing, err := repo.FindByExternalID(ctx, ownerID, txn.ExternalID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		now := e.now()
		row := &model.LedgerTransaction{
			NormalizedTransaction: txn,
			ID:                    e.newID(),
			OwnerID:               ownerID,
			AccountID:             accountID,
			FileID:                fileID,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		err = repo.Create(ctx, row)
		if err == nil {
			return outcomeImported, nil
		}
		if !errors.Is(err, model.ErrDuplicate) {
			return 0, fmt.Errorf("creating transaction: %w", err)
		}
		// Another import stored the same key first.
		existing, err = repo.FindByExternalID(ctx, ownerID, txn.ExternalID)
		if err != nil {
			return 0, fmt.Errorf("resolving duplicate transaction: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("finding transaction: %w", err)
	}

	if sameContent(existing, txn, accountID) {
		return outcomeSkipped, nil
	}

	existing.NormalizedTransaction = txn
	if accountID != "" {
		existing.AccountID = accountID
	}
	if existing.FileID == "" {
		existing.FileID = fileID
	}
	existing.UpdatedAt = e.now()
	if err := repo.Update(ctx, existing); err != nil {
		return 0, fmt.Errorf("updating transaction: %w", err)
	}
	return outcomeUpdated, nil
}

// sameContent reports whether storing txn would change the ledger row.
func sameContent(row *model.LedgerTransaction, txn model.NormalizedTransaction, accountID string) bool {
	cur := row.NormalizedTransaction
	if accountID != "" && row.AccountID != accountID {
		return false
	}
	return cur.Amount.Equal(txn.Amount) &&
		cur.Currency == txn.Currency &&
		cur.DocumentDate.Equal(txn.DocumentDate) &&
		cur.TransactionDate.Equal(txn.TransactionDate) &&
		cur.DocumentNumber == txn.DocumentNumber &&
		cur.PayerName == txn.PayerName &&
		cur.PayerINN == txn.PayerINN &&
		cur.PayerAccount == txn.PayerAccount &&
		cur.RecipientName == txn.RecipientName &&
		cur.RecipientINN == txn.RecipientINN &&
		cur.RecipientAccount == txn.RecipientAccount &&
		cur.PaymentPurpose == txn.PaymentPurpose &&
		cur.AccountNumber == txn.AccountNumber &&
		cur.Direction == txn.Direction
}
