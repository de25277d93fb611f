package sqlite

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

var testNow = time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC)

func driverArgs(args []any) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func sampleTransaction() *model.LedgerTransaction {
	return &model.LedgerTransaction{
		NormalizedTransaction: model.NormalizedTransaction{
			DocumentNumber:   "12",
			DocumentDate:     time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
			TransactionDate:  time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
			Amount:           decimal.RequireFromString("15000.50"),
			Currency:         "RUB",
			PayerName:        `ООО "Финсплит"`,
			PayerINN:         "7700000001",
			PayerAccount:     "40702810000000000001",
			RecipientName:    "OOO Example",
			RecipientINN:     "1234567890",
			RecipientAccount: "40702810900000000002",
			PaymentPurpose:   "Оплата по счету 45",
			AccountNumber:    "40702810000000000001",
			Direction:        model.DirectionExpense,
			ExternalID:       "key-12",
		},
		ID:        "tx-1",
		OwnerID:   "owner-1",
		AccountID: "acc-1",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}
