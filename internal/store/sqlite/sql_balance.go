package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

type balanceRepository sqlRepo

var _ ledger.BalanceRepository = (*balanceRepository)(nil)

func (br *balanceRepository) FindByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*model.AccountBalance, error) {
	query, args, err := buildFindBalanceQuery(accountID, date)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	b, err := scanBalance(br.r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (br *balanceRepository) ListByAccount(ctx context.Context, accountID string) ([]model.AccountBalance, error) {
	query, args, err := buildListBalancesQuery(accountID)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := br.r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	defer rows.Close()

	var out []model.AccountBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	return out, nil
}

func (br *balanceRepository) Create(ctx context.Context, b *model.AccountBalance) error {
	query, args, err := buildCreateBalanceQuery(b)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if _, err := br.r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (br *balanceRepository) Update(ctx context.Context, b *model.AccountBalance) error {
	query, args, err := buildUpdateBalanceQuery(b)
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	res, err := br.r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func scanBalance(row rowScanner) (*model.AccountBalance, error) {
	var (
		b                model.AccountBalance
		day, amount      string
		created, updated string
	)
	if err := row.Scan(&b.ID, &b.AccountID, &day, &amount, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if b.BalanceDate, err = parseDate(day); err != nil {
		return nil, err
	}
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing stored amount %q: %w", amount, err)
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &b, nil
}
