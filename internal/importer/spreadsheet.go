package importer

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
	"github.com/ig-gor95/finsplit-sub001/internal/normalize"
)

// Options tunes the built-in parsers.
type Options struct {
	MetadataRows    int    // leading rows scanned for label/value metadata
	DefaultCurrency string // used when a statement names no currency
}

// DefaultOptions returns the options used by DefaultRegistry.
func DefaultOptions() Options {
	return Options{MetadataRows: 9, DefaultCurrency: model.DefaultCurrency}
}

func (o Options) currency() string {
	if o.DefaultCurrency == "" {
		return model.DefaultCurrency
	}
	return o.DefaultCurrency
}

func (o Options) metadataRows() int {
	if o.MetadataRows <= 0 {
		return DefaultOptions().MetadataRows
	}
	return o.MetadataRows
}

// Column label candidates, in priority order.
var (
	dateLabels             = []string{"Дата документа", "Дата", "Date"}
	timeLabels             = []string{"Время", "Time"}
	numberLabels           = []string{"Номер документа", "№ документа", "Номер", "Number", "№ док"}
	payerAccountLabels     = []string{"Счет плательщика", "Счет Дт", "Счет дебет"}
	recipientAccountLabels = []string{"Счет получателя", "Счет Кт", "Счет кредит"}
	payerINNLabels         = []string{"ИНН плательщика"}
	recipientINNLabels     = []string{"ИНН получателя"}
	payerLabels            = []string{"Плательщик", "Контрагент"}
	recipientLabels        = []string{"Получатель", "Контрагент получатель"}
	purposeLabels          = []string{"Назначение платежа", "Назначение", "Purpose"}

	// Amount labels are tried tier by tier; debit/credit columns are only
	// used when no sum column exists.
	amountLabelTiers = [][]string{
		{"Сумма", "Amount"},
		{"Дебет", "Кредит", "Debit", "Credit"},
	}
)

// SpreadsheetParser reads statements laid out as a label/value metadata block
// followed by a table whose header row is found by label, not position.
type SpreadsheetParser struct {
	bank          model.BankType
	opts          Options
	headerMarkers []string
	headerRows    int  // rows the table header spans
	requireAmount bool // header candidate must also name an amount column
	labels        []metaLabel
}

// NewSpreadsheetParser returns the generic spreadsheet parser.
func NewSpreadsheetParser(opts Options) *SpreadsheetParser {
	return &SpreadsheetParser{
		bank:          model.BankOneC,
		opts:          opts,
		headerMarkers: []string{"Дата", "Номер"},
		headerRows:    1,
		requireAmount: true,
		labels:        metaLabels(false),
	}
}

// NewRaiffeisenSpreadsheetParser returns the Raiffeisen variant: a "№ П/П"
// header spanning two rows, numeric currency codes, closing balance and period.
func NewRaiffeisenSpreadsheetParser(opts Options) *SpreadsheetParser {
	return &SpreadsheetParser{
		bank:          model.BankRaiffeisen,
		opts:          opts,
		headerMarkers: []string{"№ П/П"},
		headerRows:    2,
		labels:        metaLabels(true),
	}
}

// Bank returns the bank this parser handles.
func (p *SpreadsheetParser) Bank() model.BankType { return p.bank }

// Formats returns the file formats this parser handles.
func (p *SpreadsheetParser) Formats() []model.FileFormat {
	return []model.FileFormat{model.FormatXLSX, model.FormatXLS}
}

// Parse reads the first sheet of an xlsx or xls workbook.
func (p *SpreadsheetParser) Parse(r io.Reader) (*Result, error) {
	g, err := loadGrid(r)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	headerAt := p.findHeader(g)

	scanTo := min(len(g), p.opts.metadataRows())
	if headerAt >= 0 {
		scanTo = min(scanTo, headerAt)
	}
	meta := p.scanMetadata(g, scanTo)
	if !meta.IsEmpty() {
		res.Metadata = meta
	}

	if headerAt < 0 {
		return res, nil
	}

	headerEnd := headerAt + 1
	if p.headerRows > 1 && headerEnd < len(g) && !looksLikeData(g[headerEnd]) {
		headerEnd++
	}
	headers := headerLabels(g, headerAt, headerEnd)
	cols := resolveColumns(headers)
	if cols.date < 0 || len(cols.amounts) == 0 {
		res.Errors = append(res.Errors, RowError{Row: headerAt + 1, Err: errors.New("header row has no date or amount column")})
		return res, nil
	}

	currency := p.opts.currency()
	if meta.Currency != "" {
		currency = meta.Currency
	}

	for i := headerEnd; i < len(g); i++ {
		if g.blankRow(i) {
			continue
		}
		txn, ok, err := p.row(g, i, cols, meta, currency)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Document: g.at(i, cols.number).text, Err: err})
			continue
		}
		if ok {
			res.Transactions = append(res.Transactions, txn)
		}
	}
	return res, nil
}

// findHeader returns the index of the first header row, or -1.
func (p *SpreadsheetParser) findHeader(g grid) int {
	for i := range g {
		first := strings.ToLower(g.at(i, 0).text)
		if first == "" {
			continue
		}
		matched := false
		for _, m := range p.headerMarkers {
			if strings.Contains(first, strings.ToLower(m)) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if p.requireAmount && !rowNamesAmount(g[i]) {
			continue
		}
		return i
	}
	return -1
}

// looksLikeData reports whether a row holds a date, i.e. is not a sub-header.
func looksLikeData(row []cell) bool {
	for _, c := range row {
		if _, err := normalize.ParseDate(c.text); err == nil {
			return true
		}
	}
	return false
}

func rowNamesAmount(row []cell) bool {
	for _, c := range row {
		label := strings.ToLower(c.text)
		for _, tier := range amountLabelTiers {
			for _, l := range tier {
				if strings.Contains(label, strings.ToLower(l)) {
					return true
				}
			}
		}
	}
	return false
}

// headerLabels builds one label per column. For a two-row header the
// sub-header is appended to its parent; an empty parent cell inherits the
// nearest label to its left (a merged cell), so "Сумма" over "Дебет" and
// "Кредит" yields "сумма дебет" and "сумма кредит".
func headerLabels(g grid, start, end int) []headerCell {
	top := g[start]
	width := len(top)
	for i := start + 1; i < end; i++ {
		width = max(width, len(g[i]))
	}

	var headers []headerCell
	parent := ""
	for j := 0; j < width; j++ {
		label := g.at(start, j).text
		if label != "" {
			parent = label
		}
		for i := start + 1; i < end; i++ {
			sub := g.at(i, j).text
			if sub == "" {
				continue
			}
			if label == "" {
				label = parent
			}
			label = strings.TrimSpace(label + " " + sub)
		}
		if label != "" {
			headers = append(headers, headerCell{label: strings.ToLower(label), col: j})
		}
	}
	return headers
}

type headerCell struct {
	label string // lowercased
	col   int
}

type amountColumn struct {
	col       int
	direction model.Direction
}

type columns struct {
	date, clock, number            int
	payerAccount, recipientAccount int
	payerINN, recipientINN         int
	payer, recipient, purpose      int
	amounts                        []amountColumn
}

// resolveColumns maps fields to column indexes. Candidates are tried in
// order and the leftmost matching column wins; a column claimed by one
// field is not offered to later fields.
func resolveColumns(headers []headerCell) columns {
	claimed := make(map[int]bool)
	find := func(candidates []string) int {
		for _, c := range candidates {
			c = strings.ToLower(c)
			for _, h := range headers {
				if !claimed[h.col] && strings.Contains(h.label, c) {
					claimed[h.col] = true
					return h.col
				}
			}
		}
		return -1
	}

	cols := columns{
		date:             find(dateLabels),
		clock:            find(timeLabels),
		number:           find(numberLabels),
		payerAccount:     find(payerAccountLabels),
		recipientAccount: find(recipientAccountLabels),
		payerINN:         find(payerINNLabels),
		recipientINN:     find(recipientINNLabels),
	}

	for _, tier := range amountLabelTiers {
		for _, c := range tier {
			c = strings.ToLower(c)
			for _, h := range headers {
				if !claimed[h.col] && strings.Contains(h.label, c) {
					claimed[h.col] = true
					cols.amounts = append(cols.amounts, amountColumn{col: h.col, direction: labelDirection(h.label)})
				}
			}
		}
		if len(cols.amounts) > 0 {
			break
		}
	}

	cols.payer = find(payerLabels)
	cols.recipient = find(recipientLabels)
	cols.purpose = find(purposeLabels)
	return cols
}

func labelDirection(label string) model.Direction {
	switch {
	case strings.Contains(label, "дебет"), strings.Contains(label, "debit"):
		return model.DirectionExpense
	case strings.Contains(label, "кредит"), strings.Contains(label, "credit"):
		return model.DirectionIncome
	}
	return model.DirectionUnknown
}

// row converts one table row. ok is false for rows dropped without an error:
// footers with no date and rows with a zero or blank amount.
func (p *SpreadsheetParser) row(g grid, i int, cols columns, meta *model.AccountMetadata, currency string) (model.NormalizedTransaction, bool, error) {
	dateCell := g.at(i, cols.date)
	if dateCell.blank() {
		return model.NormalizedTransaction{}, false, nil
	}
	date, err := cellDate(dateCell)
	if err != nil {
		return model.NormalizedTransaction{}, false, err
	}

	amount := decimal.Zero
	direction := model.DirectionUnknown
	for _, ac := range cols.amounts {
		c := g.at(i, ac.col)
		if c.blank() {
			continue
		}
		v, err := cellAmount(c)
		if err != nil {
			return model.NormalizedTransaction{}, false, err
		}
		if !v.IsZero() {
			amount, direction = v.Abs(), ac.direction
			break
		}
	}
	if amount.IsZero() {
		return model.NormalizedTransaction{}, false, nil
	}

	// The posting time comes from a time column, else from a clock shown
	// after the date ("02.11.2025 14:05").
	posted := date
	if c := g.at(i, cols.clock); !c.blank() {
		posted = normalize.ParseDateTime(date, cellClock(c))
	} else if _, clock, ok := strings.Cut(dateCell.text, " "); ok {
		posted = normalize.ParseDateTime(date, clock)
	}

	payerName, payerINN := splitWithINN(g.at(i, cols.payer).text, g.at(i, cols.payerINN).text)
	recipientName, recipientINN := splitWithINN(g.at(i, cols.recipient).text, g.at(i, cols.recipientINN).text)
	payerAccount := g.at(i, cols.payerAccount).text
	recipientAccount := g.at(i, cols.recipientAccount).text

	accountNumber := meta.AccountNumber
	if accountNumber == "" {
		accountNumber = payerAccount
	}
	if accountNumber == "" {
		accountNumber = recipientAccount
	}
	if direction == model.DirectionUnknown {
		direction = model.DirectionFor(meta.AccountNumber, payerAccount, recipientAccount)
	}

	return model.NormalizedTransaction{
		DocumentNumber:   g.at(i, cols.number).text,
		DocumentDate:     date,
		TransactionDate:  posted,
		Amount:           amount,
		Currency:         currency,
		PayerName:        payerName,
		PayerINN:         payerINN,
		PayerAccount:     payerAccount,
		RecipientName:    recipientName,
		RecipientINN:     recipientINN,
		RecipientAccount: recipientAccount,
		PaymentPurpose:   g.at(i, cols.purpose).text,
		AccountNumber:    accountNumber,
		Direction:        direction,
	}, true, nil
}

// metaLabel recognizes one metadata row by label fragment.
type metaLabel struct {
	fragments []string
	apply     func(m *model.AccountMetadata, value cell)
}

func (l metaLabel) matches(label string) bool {
	for _, f := range l.fragments {
		if strings.Contains(label, f) {
			return true
		}
	}
	return false
}

// scanMetadata reads label/value pairs from column 0 and 1 of the first rows.
// The first matching label wins, so more specific labels come first.
func (p *SpreadsheetParser) scanMetadata(g grid, rows int) *model.AccountMetadata {
	meta := &model.AccountMetadata{}
	for i := 0; i < rows; i++ {
		label := strings.ToLower(g.at(i, 0).text)
		value := g.at(i, 1)
		if label == "" || value.blank() {
			continue
		}
		for _, l := range p.labels {
			if l.matches(label) {
				l.apply(meta, value)
				break
			}
		}
	}
	return meta
}

func dateInto(dst **time.Time, v cell) {
	if d, err := cellDate(v); err == nil {
		*dst = &d
	}
}

var periodDate = regexp.MustCompile(`\d{2}[./-]\d{2}[./-]\d{4}|\d{4}-\d{2}-\d{2}`)

// metaLabels lists the recognized metadata labels, most specific first.
// The Raiffeisen variant adds closing balance, statement date, period and
// numeric currency codes.
func metaLabels(raiffeisen bool) []metaLabel {
	labels := []metaLabel{
		{[]string{"входящий остаток", "opening balance"}, func(m *model.AccountMetadata, v cell) {
			if amt, err := cellAmount(v); err == nil {
				m.OpeningBalance = decimal.NewNullDecimal(amt)
			}
		}},
		{[]string{"дата предыдущей выписки", "previous statement date"}, func(m *model.AccountMetadata, v cell) {
			dateInto(&m.PreviousStatementDate, v)
		}},
	}
	if raiffeisen {
		labels = append(labels,
			metaLabel{[]string{"исходящий остаток", "closing balance"}, func(m *model.AccountMetadata, v cell) {
				if amt, err := cellAmount(v); err == nil {
					m.ClosingBalance = decimal.NewNullDecimal(amt)
				}
			}},
			metaLabel{[]string{"дата выписки", "statement date"}, func(m *model.AccountMetadata, v cell) {
				dateInto(&m.StatementDate, v)
			}},
			metaLabel{[]string{"период", "period"}, func(m *model.AccountMetadata, v cell) {
				found := periodDate.FindAllString(v.text, 2)
				if len(found) > 0 {
					dateInto(&m.PeriodStart, cell{text: found[0]})
				}
				if len(found) > 1 {
					dateInto(&m.PeriodEnd, cell{text: found[1]})
				}
			}},
		)
	}
	return append(labels,
		metaLabel{[]string{"наименование счета", "account name"}, func(m *model.AccountMetadata, v cell) {
			m.AccountName = v.text
		}},
		metaLabel{[]string{"номер счета", "account number"}, func(m *model.AccountMetadata, v cell) {
			m.AccountNumber = strings.ReplaceAll(v.text, " ", "")
		}},
		metaLabel{[]string{"валюта счета", "account currency"}, func(m *model.AccountMetadata, v cell) {
			m.CurrencyRaw = v.text
			if raiffeisen {
				if iso, ok := normalize.CurrencyFromCode(v.text); ok {
					m.Currency = iso
				}
			} else if code := strings.ToUpper(v.text); normalize.IsCurrencyCode(code) {
				m.Currency = code
			}
		}},
		metaLabel{[]string{"инн", "inn"}, func(m *model.AccountMetadata, v cell) {
			m.ClientINN = v.text
		}},
		metaLabel{[]string{"клиент", "client"}, func(m *model.AccountMetadata, v cell) {
			m.ClientName = v.text
		}},
	)
}
