package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

type transactionRepository sqlRepo

var _ ledger.TransactionRepository = (*transactionRepository)(nil)

func (tr *transactionRepository) FindByExternalID(ctx context.Context, ownerID, externalID string) (*model.LedgerTransaction, error) {
	query, args, err := buildFindTransactionQuery(ownerID, externalID)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	t, err := scanTransaction(tr.r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (tr *transactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.LedgerTransaction, error) {
	query, args, err := buildListTransactionsQuery(ownerID)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := tr.r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.LedgerTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return out, nil
}

func (tr *transactionRepository) Create(ctx context.Context, t *model.LedgerTransaction) error {
	query, args, err := buildCreateTransactionQuery(t)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := tr.r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (tr *transactionRepository) Update(ctx context.Context, t *model.LedgerTransaction) error {
	query, args, err := buildUpdateTransactionQuery(t)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	res, err := tr.r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func scanTransaction(row rowScanner) (*model.LedgerTransaction, error) {
	var (
		t                                         model.LedgerTransaction
		direction                                 string
		docDate, txDate, amount, created, updated string
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.AccountID,
		&t.FileID,
		&t.ExternalID,
		&t.DocumentNumber,
		&docDate,
		&txDate,
		&amount,
		&t.Currency,
		&t.PayerName,
		&t.PayerINN,
		&t.PayerAccount,
		&t.RecipientName,
		&t.RecipientINN,
		&t.RecipientAccount,
		&t.PaymentPurpose,
		&t.AccountNumber,
		&direction,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	t.Direction = model.Direction(direction)
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing stored amount %q: %w", amount, err)
	}
	if t.DocumentDate, err = parseDate(docDate); err != nil {
		return nil, err
	}
	if t.TransactionDate, err = parseTime(txDate); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}
