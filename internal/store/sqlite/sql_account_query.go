package sqlite

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

const tableAccounts = "accounts"

var accountColumns = []string{
	"id",
	"owner_id",
	"number",
	"name",
	"client_name",
	"client_inn",
	"currency",
	"current_balance",
	"last_statement_date",
	"created_at",
	"updated_at",
}

func buildFindAccountQuery(ownerID, number string) (string, []any, error) {
	return psql.Select(accountColumns...).
		From(tableAccounts).
		Where(sq.Eq{"owner_id": ownerID, "number": number}).
		ToSql()
}

func buildListAccountsQuery(ownerID string) (string, []any, error) {
	return psql.Select(accountColumns...).
		From(tableAccounts).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("number").
		ToSql()
}

func buildCreateAccountQuery(a *model.Account) (string, []any, error) {
	return psql.Insert(tableAccounts).
		Columns(accountColumns...).
		Values(
			a.ID, a.OwnerID, a.Number, a.Name, a.ClientName, a.ClientINN, a.Currency,
			a.CurrentBalance, nullDate(a.LastStatementDate), formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		).
		ToSql()
}

func buildUpdateAccountQuery(a *model.Account) (string, []any, error) {
	return psql.Update(tableAccounts).
		SetMap(map[string]any{
			"name":                a.Name,
			"client_name":         a.ClientName,
			"client_inn":          a.ClientINN,
			"currency":            a.Currency,
			"current_balance":     a.CurrentBalance,
			"last_statement_date": nullDate(a.LastStatementDate),
			"updated_at":          formatTime(a.UpdatedAt),
		}).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
}
