package sqlite

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

const tableTransactions = "transactions"

var transactionColumns = []string{
	"id",
	"owner_id",
	"COALESCE(account_id, '')",
	"COALESCE(file_id, '')",
	"external_id",
	"document_number",
	"document_date",
	"transaction_date",
	"amount",
	"currency",
	"payer_name",
	"payer_inn",
	"payer_account",
	"recipient_name",
	"recipient_inn",
	"recipient_account",
	"payment_purpose",
	"account_number",
	"direction",
	"created_at",
	"updated_at",
}

func buildFindTransactionQuery(ownerID, externalID string) (string, []any, error) {
	return psql.Select(transactionColumns...).
		From(tableTransactions).
		Where(sq.Eq{"owner_id": ownerID, "external_id": externalID}).
		ToSql()
}

func buildListTransactionsQuery(ownerID string) (string, []any, error) {
	return psql.Select(transactionColumns...).
		From(tableTransactions).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("document_date", "document_number", "id").
		ToSql()
}

func buildCreateTransactionQuery(t *model.LedgerTransaction) (string, []any, error) {
	return psql.Insert(tableTransactions).
		Columns(
			"id", "owner_id", "account_id", "file_id", "external_id",
			"document_number", "document_date", "transaction_date", "amount", "currency",
			"payer_name", "payer_inn", "payer_account",
			"recipient_name", "recipient_inn", "recipient_account",
			"payment_purpose", "account_number", "direction", "created_at", "updated_at",
		).
		Values(
			t.ID, t.OwnerID, nullString(t.AccountID), nullString(t.FileID), t.ExternalID,
			t.DocumentNumber, formatDate(t.DocumentDate), formatTime(t.TransactionDate), t.Amount.String(), t.Currency,
			t.PayerName, t.PayerINN, t.PayerAccount,
			t.RecipientName, t.RecipientINN, t.RecipientAccount,
			t.PaymentPurpose, t.AccountNumber, string(t.Direction), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		).
		ToSql()
}

func buildUpdateTransactionQuery(t *model.LedgerTransaction) (string, []any, error) {
	return psql.Update(tableTransactions).
		SetMap(map[string]any{
			"account_id":        nullString(t.AccountID),
			"file_id":           nullString(t.FileID),
			"document_number":   t.DocumentNumber,
			"document_date":     formatDate(t.DocumentDate),
			"transaction_date":  formatTime(t.TransactionDate),
			"amount":            t.Amount.String(),
			"currency":          t.Currency,
			"payer_name":        t.PayerName,
			"payer_inn":         t.PayerINN,
			"payer_account":     t.PayerAccount,
			"recipient_name":    t.RecipientName,
			"recipient_inn":     t.RecipientINN,
			"recipient_account": t.RecipientAccount,
			"payment_purpose":   t.PaymentPurpose,
			"account_number":    t.AccountNumber,
			"direction":         string(t.Direction),
			"updated_at":        formatTime(t.UpdatedAt),
		}).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
}
