package importer

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

func buildXLSX(t *testing.T, rows [][]any) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func raiffeisenRows() [][]any {
	return [][]any{
		{"Выписка по счету"},
		{"Клиент", `ООО "Финсплит"`},
		{"ИНН", "7700000001"},
		{"Номер счета", "40702810000000000001"},
		{"Валюта счета", "810"},
		{"Дата предыдущей выписки", "31.10.2025"},
		{"Входящий остаток", "100 000,00 Кр"},
		{"Исходящий остаток", "98 000,00"},
		{"Период", "с 01.11.2025 по 30.11.2025"},
		{"№ П/П", "Дата проводки", "Счет", "", "Сумма по дебету", "Сумма по кредиту", "№ документа", "Плательщик", "Получатель", "Назначение платежа"},
		{"", "", "Дебет", "Кредит", "", "", "", "", "", ""},
		{"1", "02.11.2025", "40702810000000000001", "40702810900000000002", 15000.5, "", "12", `ООО "Финсплит"`, "OOO Example, ИНН: 1234567890", "Оплата по счету 45"},
		{"2", "05.11.2025", "40702810500000000003", "40702810000000000001", "", "13 000,50", "13", "ИП Петров П.П.", `ООО "Финсплит"`, "Возврат аванса"},
		{"3", "06.11.2025", "40702810000000000001", "40702810900000000002", "abc", "", "14", "", "", ""},
		{"4", "07.11.2025", "40702810000000000001", "40702810900000000002", 0, "", "15", "", "", ""},
		{"5", time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC), "40702810000000000001", "40702810900000000002", -45000, "", "16", "", "", ""},
		{"Итого", "", "", "", 60000.5, 13000.5},
	}
}

func TestRaiffeisenSpreadsheet_Parse(t *testing.T) {
	p := NewRaiffeisenSpreadsheetParser(DefaultOptions())
	res, err := p.Parse(buildXLSX(t, raiffeisenRows()))
	require.NoError(t, err)

	require.Len(t, res.Transactions, 3)

	out := res.Transactions[0]
	assert.Equal(t, "12", out.DocumentNumber)
	assert.Equal(t, date(2025, 11, 2), out.DocumentDate)
	assert.Equal(t, "15000.50", out.Amount.StringFixed(2))
	assert.Equal(t, model.DirectionExpense, out.Direction)
	assert.Equal(t, "40702810000000000001", out.PayerAccount)
	assert.Equal(t, "40702810900000000002", out.RecipientAccount)
	assert.Equal(t, "OOO Example", out.RecipientName)
	assert.Equal(t, "1234567890", out.RecipientINN)
	assert.Equal(t, "Оплата по счету 45", out.PaymentPurpose)
	assert.Equal(t, "RUB", out.Currency)
	assert.Equal(t, "40702810000000000001", out.AccountNumber)

	in := res.Transactions[1]
	assert.Equal(t, "13000.50", in.Amount.StringFixed(2))
	assert.Equal(t, model.DirectionIncome, in.Direction)

	// Serial-number date and a negative amount.
	neg := res.Transactions[2]
	assert.Equal(t, "16", neg.DocumentNumber)
	assert.Equal(t, date(2025, 11, 8), neg.DocumentDate)
	assert.Equal(t, "45000.00", neg.Amount.StringFixed(2))

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 14, res.Errors[0].Row)
	assert.Equal(t, "14", res.Errors[0].Document)
	assert.Contains(t, res.Errors[0].Error(), "parsing amount")

	meta := res.Metadata
	require.NotNil(t, meta)
	assert.Equal(t, `ООО "Финсплит"`, meta.ClientName)
	assert.Equal(t, "7700000001", meta.ClientINN)
	assert.Equal(t, "40702810000000000001", meta.AccountNumber)
	assert.Equal(t, "810", meta.CurrencyRaw)
	assert.Equal(t, "RUB", meta.Currency)
	assert.Equal(t, date(2025, 10, 31), *meta.PreviousStatementDate)
	assert.Equal(t, "100000.00", meta.OpeningBalance.Decimal.StringFixed(2))
	assert.Equal(t, "98000.00", meta.ClosingBalance.Decimal.StringFixed(2))
	assert.Equal(t, date(2025, 11, 1), *meta.PeriodStart)
	assert.Equal(t, date(2025, 11, 30), *meta.PeriodEnd)
}

func TestRaiffeisenSpreadsheet_CurrencyCodes(t *testing.T) {
	for code, want := range map[string]string{"840": "USD", "978": "EUR", "Российский рубль": "RUB"} {
		rows := [][]any{
			{"Валюта счета", code},
			{"№ П/П", "Дата", "Сумма"},
			{"1", "01.11.2025", 10},
		}
		res, err := NewRaiffeisenSpreadsheetParser(DefaultOptions()).Parse(buildXLSX(t, rows))
		require.NoError(t, err)
		require.Len(t, res.Transactions, 1, code)
		assert.Equal(t, want, res.Transactions[0].Currency, code)
	}
}

func TestSpreadsheet_GenericLayout(t *testing.T) {
	rows := [][]any{
		{"Номер счета", "40702810000000000001"},
		{"Валюта счета", "usd"},
		{"Дата", "Номер", "Сумма", "Плательщик", "Счет плательщика", "Получатель", "Счет получателя", "Назначение"},
		{"01.11.2025", "1", "1 500,00", "ACME Ltd, INN 7701234567", "40702810000000000001", "Supplier", "40702810900000000002", "Invoice 1"},
		{"2025-11-02", "2", 700, "Client", "40702810500000000003", "ACME Ltd", "40702810000000000001", "Payment"},
		{"", "", "", "", "", "", "", ""},
		{"03/11/2025", "3", "", "", "", "", "", "blank amount"},
	}
	res, err := NewSpreadsheetParser(DefaultOptions()).Parse(buildXLSX(t, rows))
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)

	first := res.Transactions[0]
	assert.Equal(t, "1", first.DocumentNumber)
	assert.Equal(t, "1500.00", first.Amount.StringFixed(2))
	assert.Equal(t, "ACME Ltd", first.PayerName)
	assert.Equal(t, "7701234567", first.PayerINN)
	assert.Equal(t, "Supplier", first.RecipientName)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, model.DirectionExpense, first.Direction)

	second := res.Transactions[1]
	assert.Equal(t, date(2025, 11, 2), second.DocumentDate)
	assert.Equal(t, model.DirectionIncome, second.Direction)

	require.NotNil(t, res.Metadata)
	assert.Equal(t, "USD", res.Metadata.Currency)
}

func TestSpreadsheet_NoHeaderRow(t *testing.T) {
	rows := [][]any{
		{"Клиент", "ООО Ромашка"},
		{"Номер счета", "40702810000000000001"},
		{"Входящий остаток", "5 000,00"},
		{"01.11.2025", "1", 100},
		{"02.11.2025", "2", 200},
	}
	for _, p := range []*SpreadsheetParser{
		NewSpreadsheetParser(DefaultOptions()),
		NewRaiffeisenSpreadsheetParser(DefaultOptions()),
	} {
		res, err := p.Parse(buildXLSX(t, rows))
		require.NoError(t, err)
		assert.Empty(t, res.Transactions)
		assert.Empty(t, res.Errors)
		require.NotNil(t, res.Metadata)
		assert.Equal(t, "ООО Ромашка", res.Metadata.ClientName)
		assert.Equal(t, "5000.00", res.Metadata.OpeningBalance.Decimal.StringFixed(2))
	}
}

func TestSpreadsheet_HeaderWithoutAmountColumn(t *testing.T) {
	rows := [][]any{
		{"№ П/П", "Дата", "Описание"},
		{"1", "01.11.2025", "что-то"},
	}
	res, err := NewRaiffeisenSpreadsheetParser(DefaultOptions()).Parse(buildXLSX(t, rows))
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "no date or amount column")
}

func TestSpreadsheet_FormulaAmount(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Дата", "Номер", "Сумма", "Часть"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"01.11.2025", "1", "", 125.25}))
	require.NoError(t, f.SetCellFormula("Sheet1", "C2", "D2*2"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := NewSpreadsheetParser(DefaultOptions()).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "250.50", res.Transactions[0].Amount.StringFixed(2))
}

func TestSpreadsheet_PostingTime(t *testing.T) {
	rows := [][]any{
		{"Дата", "Время", "Номер", "Сумма"},
		{"01.11.2025", "14:05", "1", 100},
		{"02.11.2025 09:30", "", "2", 200},
		{"03.11.2025", 0.75, "3", 300},
		{"04.11.2025", "", "4", 400},
	}
	res, err := NewSpreadsheetParser(DefaultOptions()).Parse(buildXLSX(t, rows))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 4)

	want := []time.Time{
		time.Date(2025, 11, 1, 14, 5, 0, 0, time.UTC),
		time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC),
		date(2025, 11, 4),
	}
	for i, txn := range res.Transactions {
		assert.Equal(t, want[i], txn.TransactionDate, "row %d", i+1)
		assert.Equal(t, date(2025, 11, i+1), txn.DocumentDate, "row %d", i+1)
	}
}

func TestSpreadsheet_SerialDateWinsOverDisplay(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Дата", "Номер", "Сумма"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{date(2025, 11, 8), "1", 100}))
	usDate := "mm/dd/yyyy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &usDate})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := NewSpreadsheetParser(DefaultOptions()).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, date(2025, 11, 8), res.Transactions[0].DocumentDate)
}

func TestCellDate(t *testing.T) {
	tests := []struct {
		name string
		in   cell
		want time.Time
	}{
		{"text", cell{text: "02.11.2025", raw: "02.11.2025"}, date(2025, 11, 2)},
		{"serial with us display", cell{text: "11/08/2025", raw: "45969"}, date(2025, 11, 8)},
		{"serial with time", cell{text: "11/8/25 13:00", raw: "45969.5416666667"}, date(2025, 11, 8)},
		{"small number falls back to text", cell{text: "2025-11-02", raw: "12"}, date(2025, 11, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cellDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellClock(t *testing.T) {
	assert.Equal(t, "12:00:00", cellClock(cell{text: "0.5", raw: "0.5"}))
	assert.Equal(t, "14:05:00", cellClock(cell{text: "14:05", raw: "0.586805555555556"}))
	assert.Equal(t, "09:30", cellClock(cell{text: "09:30", raw: "09:30"}))
}

func TestSpreadsheet_NotAWorkbook(t *testing.T) {
	_, err := NewSpreadsheetParser(DefaultOptions()).Parse(strings.NewReader("Дата;Сумма\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an xlsx or xls workbook")
}

func TestResolveColumns_FirstCandidateWins(t *testing.T) {
	headers := []headerCell{
		{label: "дата", col: 0},
		{label: "дата документа", col: 1},
		{label: "счет плательщика", col: 2},
		{label: "плательщик", col: 3},
		{label: "сумма", col: 4},
		{label: "дебет", col: 5},
	}
	cols := resolveColumns(headers)
	assert.Equal(t, 1, cols.date)
	assert.Equal(t, 2, cols.payerAccount)
	assert.Equal(t, 3, cols.payer)
	require.Len(t, cols.amounts, 1)
	assert.Equal(t, 4, cols.amounts[0].col)
	assert.Equal(t, -1, cols.number)
}

func TestHeaderLabels_MergesSubHeader(t *testing.T) {
	g := grid{
		{{text: "Счет"}, {}, {text: "Сумма"}, {}},
		{{text: "Дебет"}, {text: "Кредит"}, {text: "Дебет"}, {text: "Кредит"}},
	}
	got := headerLabels(g, 0, 2)
	assert.Equal(t, []headerCell{
		{label: "счет дебет", col: 0},
		{label: "счет кредит", col: 1},
		{label: "сумма дебет", col: 2},
		{label: "сумма кредит", col: 3},
	}, got)
}
