package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
	"github.com/ig-gor95/finsplit-sub001/internal/normalize"
)

// OneCParser parses 1C:Enterprise client-bank exchange files
// (windows-1251 text, "key=value" lines grouped into sections).
type OneCParser struct {
	bank      model.BankType
	currency  string
	isPayment func(docType string) bool
}

const (
	markerDocument    = "СекцияДокумент"
	markerDocumentEnd = "КонецДокумента"
	markerAccount     = "СекцияРасчСчет"
	markerAccountEnd  = "КонецРасчСчет"
	markerFileEnd     = "КонецФайла"

	keyDocType          = "ВидДокумента"
	keyNumber           = "Номер"
	keyDate             = "Дата"
	keyAmount           = "Сумма"
	keyPayer            = "Плательщик"
	keyPayer1           = "Плательщик1"
	keyPayerINN         = "ПлательщикИНН"
	keyPayerAccount     = "ПлательщикСчет"
	keyPayerAccountAlt  = "ПлательщикРасчСчет"
	keyRecipient        = "Получатель"
	keyRecipient1       = "Получатель1"
	keyRecipientINN     = "ПолучательИНН"
	keyRecipientAccount = "ПолучательСчет"
	keyRecipientAccAlt  = "ПолучательРасчСчет"
	keyPurpose          = "НазначениеПлатежа"
	keyDebitedDate      = "ДатаСписано"
	keyCreditedDate     = "ДатаПоступило"

	keyStatementAccount = "РасчСчет"
	keyPeriodStart      = "ДатаНачала"
	keyPeriodEnd        = "ДатаКонца"
	keyOpeningBalance   = "НачальныйОстаток"
	keyClosingBalance   = "КонечныйОстаток"
)

// NewOneCParser returns the parser for generic 1C exchange files.
// Only documents typed "Платежное поручение" become transactions.
func NewOneCParser(opts Options) *OneCParser {
	return &OneCParser{
		bank:      model.BankOneC,
		currency:  opts.currency(),
		isPayment: isPaymentOrder,
	}
}

// NewRaiffeisenOneCParser returns the parser for Raiffeisen 1C exports,
// which keep every payment-type document ("Платежное требование" etc.).
func NewRaiffeisenOneCParser(opts Options) *OneCParser {
	return &OneCParser{
		bank:      model.BankRaiffeisen,
		currency:  opts.currency(),
		isPayment: isPaymentDocument,
	}
}

func isPaymentOrder(docType string) bool {
	t := strings.ToLower(strings.ReplaceAll(docType, " ", ""))
	return strings.Contains(t, "платежноепоручение")
}

func isPaymentDocument(docType string) bool {
	return strings.Contains(strings.ToLower(docType), "платежн")
}

// Bank returns the bank this parser handles.
func (p *OneCParser) Bank() model.BankType { return p.bank }

// Formats returns the file formats this parser handles.
func (p *OneCParser) Formats() []model.FileFormat { return []model.FileFormat{model.FormatTXT} }

type sectionState int

const (
	stateHeader sectionState = iota
	stateDocument
	stateAccount
	stateBetween
)

type section struct {
	line     int
	docType  string
	fields   map[string]string
	unclosed bool
}

func (s section) get(keys ...string) string {
	for _, k := range keys {
		if v := s.fields[k]; v != "" {
			return v
		}
	}
	return ""
}

// Parse reads a windows-1251 encoded exchange file.
func (p *OneCParser) Parse(r io.Reader) (*Result, error) {
	sc := bufio.NewScanner(charmap.Windows1251.NewDecoder().Reader(r))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		state    = stateHeader
		header   = make(map[string]string)
		accounts []map[string]string
		docs     []section
		cur      *section
		lineNo   int
		res      = &Result{}
	)

scan:
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, hasValue := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case markerDocument:
			if cur != nil {
				cur.unclosed = true
				docs = append(docs, *cur)
			}
			cur = &section{line: lineNo, docType: value, fields: make(map[string]string)}
			state = stateDocument
			continue
		case markerDocumentEnd:
			if cur != nil {
				docs = append(docs, *cur)
				cur = nil
			}
			state = stateBetween
			continue
		case markerAccount:
			accounts = append(accounts, make(map[string]string))
			state = stateAccount
			continue
		case markerAccountEnd:
			state = stateBetween
			continue
		case markerFileEnd:
			break scan
		}
		if !hasValue {
			continue
		}

		switch state {
		case stateHeader:
			if _, seen := header[key]; !seen {
				header[key] = value
			}
		case stateAccount:
			accounts[len(accounts)-1][key] = value
		case stateDocument:
			cur.fields[key] = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading 1C statement: %w", err)
	}
	if cur != nil {
		cur.unclosed = true
		docs = append(docs, *cur)
	}

	meta := onecMetadata(header, accounts)
	if !meta.IsEmpty() {
		res.Metadata = meta
	}

	for _, doc := range docs {
		docType := doc.docType
		if docType == "" {
			docType = doc.fields[keyDocType]
		}
		if !p.isPayment(docType) {
			continue
		}
		if doc.unclosed {
			res.Errors = append(res.Errors, RowError{Row: doc.line, Document: doc.fields[keyNumber], Err: errors.New("document section not closed")})
			continue
		}
		txn, ok, err := p.transaction(doc, meta.AccountNumber)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: doc.line, Document: doc.fields[keyNumber], Err: err})
			continue
		}
		if ok {
			res.Transactions = append(res.Transactions, txn)
		}
	}
	return res, nil
}

// transaction builds a transaction from a document section. ok is false for
// zero-amount documents, which are dropped without an error.
func (p *OneCParser) transaction(doc section, statementAccount string) (model.NormalizedTransaction, bool, error) {
	date, err := normalize.ParseDate(doc.fields[keyDate])
	if err != nil {
		return model.NormalizedTransaction{}, false, fmt.Errorf("field %s: %w", keyDate, err)
	}
	amount, err := normalize.ParseAmount(doc.fields[keyAmount])
	if err != nil {
		return model.NormalizedTransaction{}, false, fmt.Errorf("field %s: %w", keyAmount, err)
	}
	amount = amount.Abs()
	if amount.IsZero() {
		return model.NormalizedTransaction{}, false, nil
	}

	payerName, payerINN := splitWithINN(doc.get(keyPayer, keyPayer1), doc.fields[keyPayerINN])
	recipientName, recipientINN := splitWithINN(doc.get(keyRecipient, keyRecipient1), doc.fields[keyRecipientINN])
	payerAccount := doc.get(keyPayerAccount, keyPayerAccountAlt)
	recipientAccount := doc.get(keyRecipientAccount, keyRecipientAccAlt)

	txn := model.NormalizedTransaction{
		DocumentNumber:   doc.fields[keyNumber],
		DocumentDate:     date,
		TransactionDate:  date,
		Amount:           amount,
		Currency:         p.currency,
		PayerName:        payerName,
		PayerINN:         payerINN,
		PayerAccount:     payerAccount,
		RecipientName:    recipientName,
		RecipientINN:     recipientINN,
		RecipientAccount: recipientAccount,
		PaymentPurpose:   doc.fields[keyPurpose],
		AccountNumber:    statementAccount,
		Direction:        model.DirectionFor(statementAccount, payerAccount, recipientAccount),
	}
	if txn.AccountNumber == "" {
		txn.AccountNumber = recipientAccount
	}

	if posted, err := normalize.ParseDate(doc.fields[keyDebitedDate]); err == nil {
		txn.TransactionDate = posted
		if txn.Direction == model.DirectionUnknown {
			txn.Direction = model.DirectionExpense
		}
	} else if posted, err := normalize.ParseDate(doc.fields[keyCreditedDate]); err == nil {
		txn.TransactionDate = posted
		if txn.Direction == model.DirectionUnknown {
			txn.Direction = model.DirectionIncome
		}
	}
	return txn, true, nil
}

// splitWithINN separates an inline tax id from name. An explicit inn wins.
func splitWithINN(name, inn string) (string, string) {
	n, inline := normalize.SplitCounterparty(name)
	if inn = strings.TrimSpace(inn); inn == "" {
		inn = inline
	}
	return n, inn
}

// onecMetadata merges header fields with the account sections. Header values win;
// the closing balance comes from the last account section.
func onecMetadata(header map[string]string, accounts []map[string]string) *model.AccountMetadata {
	lookup := func(key string) string {
		if v := header[key]; v != "" {
			return v
		}
		for _, a := range accounts {
			if v := a[key]; v != "" {
				return v
			}
		}
		return ""
	}

	meta := &model.AccountMetadata{AccountNumber: lookup(keyStatementAccount)}
	if d, err := normalize.ParseDate(lookup(keyPeriodStart)); err == nil {
		meta.PeriodStart = &d
	}
	if d, err := normalize.ParseDate(lookup(keyPeriodEnd)); err == nil {
		meta.PeriodEnd = &d
	}
	if amt, err := normalize.ParseAmount(lookup(keyOpeningBalance)); err == nil {
		meta.OpeningBalance = decimal.NewNullDecimal(amt)
	}

	closing := header[keyClosingBalance]
	for _, a := range accounts {
		if v := a[keyClosingBalance]; v != "" {
			closing = v
		}
	}
	if amt, err := normalize.ParseAmount(closing); err == nil {
		meta.ClosingBalance = decimal.NewNullDecimal(amt)
	}
	return meta
}
