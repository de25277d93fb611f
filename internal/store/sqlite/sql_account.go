package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

type accountRepository sqlRepo

var _ ledger.AccountRepository = (*accountRepository)(nil)

func (ar *accountRepository) FindByOwnerAndNumber(ctx context.Context, ownerID, number string) (*model.Account, error) {
	query, args, err := buildFindAccountQuery(ownerID, number)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	a, err := scanAccount(ar.r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (ar *accountRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Account, error) {
	query, args, err := buildListAccountsQuery(ownerID)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := ar.r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return out, nil
}

func (ar *accountRepository) Create(ctx context.Context, a *model.Account) error {
	query, args, err := buildCreateAccountQuery(a)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := ar.r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (ar *accountRepository) Update(ctx context.Context, a *model.Account) error {
	query, args, err := buildUpdateAccountQuery(a)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	res, err := ar.r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		a                model.Account
		lastStatement    sql.NullString
		created, updated string
	)
	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Number,
		&a.Name,
		&a.ClientName,
		&a.ClientINN,
		&a.Currency,
		&a.CurrentBalance,
		&lastStatement,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	if a.LastStatementDate, err = parseNullDate(lastStatement); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}
