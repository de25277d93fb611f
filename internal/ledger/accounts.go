package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// syncAccount finds or creates the statement's account and applies the
// metadata to it. It returns nil when the metadata names no account.
func (e *Engine) syncAccount(ctx context.Context, ownerID string, meta *model.AccountMetadata) (*model.Account, error) {
	if meta == nil || meta.AccountNumber == "" {
		return nil, nil
	}
	repo := e.stores.Accounts

	acc, err := repo.FindByOwnerAndNumber(ctx, ownerID, meta.AccountNumber)
	switch {
	case errors.Is(err, model.ErrNotFound):
		acc = e.newAccount(ownerID, meta)
		err = repo.Create(ctx, acc)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, model.ErrDuplicate) {
			return nil, fmt.Errorf("creating account: %w", err)
		}
		acc, err = repo.FindByOwnerAndNumber(ctx, ownerID, meta.AccountNumber)
		if err != nil {
			return nil, fmt.Errorf("resolving duplicate account: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("finding account: %w", err)
	}

	if applyMetadata(acc, meta) {
		acc.UpdatedAt = e.now()
		if err := repo.Update(ctx, acc); err != nil {
			return acc, fmt.Errorf("updating account: %w", err)
		}
	}
	return acc, nil
}

func (e *Engine) newAccount(ownerID string, meta *model.AccountMetadata) *model.Account {
	now := e.now()
	acc := &model.Account{
		ID:         e.newID(),
		OwnerID:    ownerID,
		Number:     meta.AccountNumber,
		Name:       meta.AccountName,
		ClientName: meta.ClientName,
		ClientINN:  meta.ClientINN,
		Currency:   meta.Currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	switch {
	case meta.ClosingBalance.Valid:
		acc.CurrentBalance = meta.ClosingBalance
	case meta.OpeningBalance.Valid:
		acc.CurrentBalance = meta.OpeningBalance
	}
	if d := meta.BalanceDate(); d != nil {
		acc.LastStatementDate = dayPtr(*d)
	} else if meta.PreviousStatementDate != nil {
		acc.LastStatementDate = dayPtr(*meta.PreviousStatementDate)
	}
	return acc
}

// applyMetadata updates acc in place and reports whether anything changed.
// Currency is only ever set once; balance and statement date only move forward.
func applyMetadata(acc *model.Account, meta *model.AccountMetadata) bool {
	changed := false
	fill := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
			changed = true
		}
	}
	fill(&acc.Currency, meta.Currency)
	fill(&acc.Name, meta.AccountName)
	fill(&acc.ClientName, meta.ClientName)
	fill(&acc.ClientINN, meta.ClientINN)

	stmt := meta.BalanceDate()
	if stmt == nil {
		if meta.ClosingBalance.Valid && !acc.CurrentBalance.Valid {
			acc.CurrentBalance = meta.ClosingBalance
			changed = true
		}
		if acc.LastStatementDate == nil && meta.PreviousStatementDate != nil {
			acc.LastStatementDate = dayPtr(*meta.PreviousStatementDate)
			changed = true
		}
		return changed
	}

	day := startOfDay(*stmt)
	last := acc.LastStatementDate
	if meta.ClosingBalance.Valid && (last == nil || !day.Before(*last)) && !sameBalance(acc.CurrentBalance, meta.ClosingBalance) {
		acc.CurrentBalance = meta.ClosingBalance
		changed = true
	}
	if last == nil || day.After(*last) {
		acc.LastStatementDate = &day
		changed = true
	}
	return changed
}

func sameBalance(a, b decimal.NullDecimal) bool {
	return a.Valid == b.Valid && a.Decimal.Equal(b.Decimal)
}

// snapshotBalance upserts the closing balance for the statement date.
func (e *Engine) snapshotBalance(ctx context.Context, acc *model.Account, meta *model.AccountMetadata) error {
	if acc == nil || meta == nil || !meta.ClosingBalance.Valid || meta.BalanceDate() == nil {
		return nil
	}
	repo := e.stores.Balances
	day := startOfDay(*meta.BalanceDate())
	amount := meta.ClosingBalance.Decimal

	existing, err := repo.FindByAccountAndDate(ctx, acc.ID, day)
	switch {
	case errors.Is(err, model.ErrNotFound):
		now := e.now()
		err = repo.Create(ctx, &model.AccountBalance{
			ID:          e.newID(),
			AccountID:   acc.ID,
			BalanceDate: day,
			Amount:      amount,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrDuplicate) {
			return fmt.Errorf("creating balance: %w", err)
		}
		existing, err = repo.FindByAccountAndDate(ctx, acc.ID, day)
		if err != nil {
			return fmt.Errorf("resolving duplicate balance: %w", err)
		}
	case err != nil:
		return fmt.Errorf("finding balance: %w", err)
	}

	if existing.Amount.Equal(amount) {
		return nil
	}
	existing.Amount = amount
	existing.UpdatedAt = e.now()
	if err := repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayPtr(t time.Time) *time.Time {
	d := startOfDay(t)
	return &d
}
