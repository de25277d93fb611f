package sqlite

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

const tableBalances = "account_balances"

var balanceColumns = []string{
	"id",
	"account_id",
	"balance_date",
	"amount",
	"created_at",
	"updated_at",
}

func buildFindBalanceQuery(accountID string, date time.Time) (string, []any, error) {
	return psql.Select(balanceColumns...).
		From(tableBalances).
		Where(sq.Eq{"account_id": accountID, "balance_date": formatDate(date)}).
		ToSql()
}

func buildListBalancesQuery(accountID string) (string, []any, error) {
	return psql.Select(balanceColumns...).
		From(tableBalances).
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("balance_date").
		ToSql()
}

func buildCreateBalanceQuery(b *model.AccountBalance) (string, []any, error) {
	return psql.Insert(tableBalances).
		Columns(balanceColumns...).
		Values(b.ID, b.AccountID, formatDate(b.BalanceDate), b.Amount.String(), formatTime(b.CreatedAt), formatTime(b.UpdatedAt)).
		ToSql()
}

func buildUpdateBalanceQuery(b *model.AccountBalance) (string, []any, error) {
	return psql.Update(tableBalances).
		Set("amount", b.Amount.String()).
		Set("updated_at", formatTime(b.UpdatedAt)).
		Where(sq.Eq{"id": b.ID}).
		ToSql()
}
