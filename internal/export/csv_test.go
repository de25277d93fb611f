package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ledgerTxn(number string, dir model.Direction, amount string) model.LedgerTransaction {
	return model.LedgerTransaction{
		NormalizedTransaction: model.NormalizedTransaction{
			DocumentNumber:   number,
			DocumentDate:     date(2025, 11, 2),
			TransactionDate:  date(2025, 11, 3),
			Amount:           decimal.RequireFromString(amount),
			Currency:         "RUB",
			PayerName:        `ООО "Финсплит"`,
			PayerAccount:     "40702810000000000001",
			RecipientName:    "OOO Example",
			RecipientINN:     "1234567890",
			RecipientAccount: "40702810900000000002",
			PaymentPurpose:   "Оплата по счету 45, НДС не облагается",
			AccountNumber:    "40702810000000000001",
			Direction:        dir,
			ExternalID:       "key-" + number,
		},
	}
}

func TestWriteTransactions(t *testing.T) {
	txns := []model.LedgerTransaction{
		ledgerTxn("12", model.DirectionExpense, "15000.5"),
		ledgerTxn("13", model.DirectionIncome, "13000.50"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, strings.Split(Header, ","), records[0])

	expense := records[1]
	assert.Equal(t, "key-12", expense[colExternalID])
	assert.Equal(t, "2025-11-02", expense[colDocDate])
	assert.Equal(t, "2025-11-03", expense[colTxDate])
	assert.Equal(t, "15000.50", expense[colDebit])
	assert.Empty(t, expense[colCredit])
	assert.Equal(t, `ООО "Финсплит"`, expense[colPayerName])
	assert.Equal(t, "Оплата по счету 45, НДС не облагается", expense[colPurpose])

	income := records[2]
	assert.Empty(t, income[colDebit])
	assert.Equal(t, "13000.50", income[colCredit])
	assert.Equal(t, "income", income[colDirection])
}

func TestWriteTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, nil))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestMarshalTransaction_ClockAndUnknownDirection(t *testing.T) {
	tx := ledgerTxn("7", model.DirectionUnknown, "10")
	tx.TransactionDate = time.Date(2025, 11, 3, 14, 5, 9, 0, time.UTC)

	row := MarshalTransaction(tx)
	assert.Len(t, row, numFields)
	assert.Equal(t, "2025-11-03 14:05:09", row[colTxDate])
	assert.Empty(t, row[colDebit])
	assert.Equal(t, "10.00", row[colCredit])
}
