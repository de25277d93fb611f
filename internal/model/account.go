package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank account owned by one user. Unique per (OwnerID, Number).
type Account struct {
	ID                string
	OwnerID           string
	Number            string
	Name              string
	ClientName        string
	ClientINN         string
	Currency          string
	CurrentBalance    decimal.NullDecimal
	LastStatementDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AccountBalance is a point-in-time balance. Unique per (AccountID, BalanceDate).
type AccountBalance struct {
	ID          string
	AccountID   string
	BalanceDate time.Time
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccountMetadata is statement-level information found in file headers.
// Every field is optional.
type AccountMetadata struct {
	ClientName            string              `json:"clientName,omitempty"`
	ClientINN             string              `json:"clientInn,omitempty"`
	AccountName           string              `json:"accountName,omitempty"`
	AccountNumber         string              `json:"accountNumber,omitempty"`
	CurrencyRaw           string              `json:"currencyRaw,omitempty"`
	Currency              string              `json:"currency,omitempty"` // ISO code when the raw value could be mapped
	PreviousStatementDate *time.Time          `json:"previousStatementDate,omitempty"`
	PeriodStart           *time.Time          `json:"periodStart,omitempty"`
	PeriodEnd             *time.Time          `json:"periodEnd,omitempty"`
	StatementDate         *time.Time          `json:"statementDate,omitempty"`
	OpeningBalance        decimal.NullDecimal `json:"openingBalance"`
	ClosingBalance        decimal.NullDecimal `json:"closingBalance"`
}

// IsEmpty reports whether no field was recovered.
func (m *AccountMetadata) IsEmpty() bool {
	return m.ClientName == "" && m.ClientINN == "" && m.AccountName == "" &&
		m.AccountNumber == "" && m.CurrencyRaw == "" && m.Currency == "" &&
		m.PreviousStatementDate == nil && m.PeriodStart == nil && m.PeriodEnd == nil &&
		m.StatementDate == nil && !m.OpeningBalance.Valid && !m.ClosingBalance.Valid
}

// BalanceDate returns the date the closing balance refers to:
// the explicit statement date, else the period end.
func (m *AccountMetadata) BalanceDate() *time.Time {
	if m.StatementDate != nil {
		return m.StatementDate
	}
	return m.PeriodEnd
}
