// Package dedup derives the content key that makes statement imports idempotent.
package dedup

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
	"github.com/ig-gor95/finsplit-sub001/internal/normalize"
)

const (
	dateFormat = "2006-01-02"
	separator  = "|"
)

// Key returns the hex SHA-256 of the transaction's identity fields: document
// number, document date, amount, currency and both counterparties. It does not
// depend on the parser, the upload, or the owner.
func Key(t model.NormalizedTransaction) string {
	parts := []string{
		strings.ToUpper(strings.TrimSpace(t.DocumentNumber)),
		t.DocumentDate.Format(dateFormat),
		t.Amount.Abs().StringFixed(2),
		strings.ToUpper(strings.TrimSpace(t.Currency)),
		counterparty(t.PayerAccount, t.PayerName),
		counterparty(t.RecipientAccount, t.RecipientName),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, separator)))
	return fmt.Sprintf("%x", sum)
}

// counterparty prefers the account number and falls back to the name.
func counterparty(account, name string) string {
	if a := strings.ReplaceAll(strings.TrimSpace(account), " ", ""); a != "" {
		return "acc:" + a
	}
	if n := normalize.CollapseSpaces(name); n != "" {
		return "name:" + strings.ToUpper(n)
	}
	return ""
}

// Stamp sets ExternalID on every transaction. Rows of one statement that share
// a key get an occurrence suffix ("#2", "#3", ...) in source order, so two
// identical payments on the same day stay two rows and re-imports of the
// same file produce the same keys.
func Stamp(txns []model.NormalizedTransaction) {
	seen := make(map[string]int, len(txns))
	for i := range txns {
		key := Key(txns[i])
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		txns[i].ExternalID = key
	}
}
