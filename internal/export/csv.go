// Package export writes ledger transactions as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// Header is the CSV header of an exported ledger.
const Header = "external_id,document_date,transaction_date,document_number,account_number,direction,debit,credit,currency,payer_name,payer_inn,payer_account,recipient_name,recipient_inn,recipient_account,payment_purpose"

const (
	numFields     = 16
	dateFormat    = "2006-01-02"
	colExternalID = 0
	colDocDate    = 1
	colTxDate     = 2
	colDocNumber  = 3
	colAccount    = 4
	colDirection  = 5
	colDebit      = 6
	colCredit     = 7
	colCurrency   = 8
	colPayerName  = 9
	colPayerINN   = 10
	colPayerAcct  = 11
	colRecipName  = 12
	colRecipINN   = 13
	colRecipAcct  = 14
	colPurpose    = 15
	txTimeFormat  = "2006-01-02 15:04:05"
)

// MarshalTransaction converts a ledger transaction to a CSV row. Expenses fill
// the debit column, income and unknown directions the credit column.
func MarshalTransaction(t model.LedgerTransaction) []string {
	row := make([]string, numFields)
	row[colExternalID] = t.ExternalID
	row[colDocDate] = t.DocumentDate.Format(dateFormat)
	row[colTxDate] = formatTransactionDate(t.TransactionDate)
	row[colDocNumber] = t.DocumentNumber
	row[colAccount] = t.AccountNumber
	row[colDirection] = string(t.Direction)

	if t.Direction == model.DirectionExpense {
		row[colDebit] = t.Amount.StringFixed(2)
	} else {
		row[colCredit] = t.Amount.StringFixed(2)
	}

	row[colCurrency] = t.Currency
	row[colPayerName] = t.PayerName
	row[colPayerINN] = t.PayerINN
	row[colPayerAcct] = t.PayerAccount
	row[colRecipName] = t.RecipientName
	row[colRecipINN] = t.RecipientINN
	row[colRecipAcct] = t.RecipientAccount
	row[colPurpose] = t.PaymentPurpose
	return row
}

// Dates without a clock part are written as plain dates.
func formatTransactionDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateFormat)
	}
	return t.Format(txTimeFormat)
}

// WriteTransactions writes the header and one row per transaction.
func WriteTransactions(w io.Writer, txns []model.LedgerTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
