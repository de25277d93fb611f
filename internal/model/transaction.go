package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells which side of a payment the statement owner is on.
type Direction string

const (
	DirectionUnknown Direction = "unknown"
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// DefaultCurrency is used when a statement does not name its currency.
const DefaultCurrency = "RUB"

// NormalizedTransaction is a single payment as recovered by a statement parser.
// It lives only for the duration of one import.
type NormalizedTransaction struct {
	DocumentNumber   string
	DocumentDate     time.Time       // identity date
	TransactionDate  time.Time       // start of day when the source has no time
	Amount           decimal.Decimal // always positive, scale 2
	Currency         string
	PayerName        string
	PayerINN         string
	PayerAccount     string
	RecipientName    string
	RecipientINN     string
	RecipientAccount string
	PaymentPurpose   string
	AccountNumber    string // statement owner's account
	Direction        Direction
	ExternalID       string // dedup key, stamped after parsing
}

// DirectionFor derives the direction from where account appears in the payment.
func DirectionFor(account, payerAccount, recipientAccount string) Direction {
	switch {
	case account == "":
		return DirectionUnknown
	case account == payerAccount:
		return DirectionExpense
	case account == recipientAccount:
		return DirectionIncome
	default:
		return DirectionUnknown
	}
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
