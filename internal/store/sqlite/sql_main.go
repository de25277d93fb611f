package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// psql builds statements with SQLite's ? placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type sqlRepo struct {
	r *Repository
}

// Repository hands out the ledger repositories backed by one database.
type Repository struct {
	db     *sql.DB
	common sqlRepo

	tr *transactionRepository
	ar *accountRepository
	br *balanceRepository
	ur *uploadRepository
}

// NewSQLRepository wraps db, which must already carry the schema.
func NewSQLRepository(db *sql.DB) *Repository {
	r := &Repository{db: db}
	r.common.r = r
	r.tr = (*transactionRepository)(&r.common)
	r.ar = (*accountRepository)(&r.common)
	r.br = (*balanceRepository)(&r.common)
	r.ur = (*uploadRepository)(&r.common)
	return r
}

func (r *Repository) GetTransactionRepository() ledger.TransactionRepository { return r.tr }
func (r *Repository) GetAccountRepository() ledger.AccountRepository         { return r.ar }
func (r *Repository) GetBalanceRepository() ledger.BalanceRepository         { return r.br }
func (r *Repository) GetUploadRepository() ledger.UploadRepository           { return r.ur }

// Stores bundles all repositories for the import engine.
func (r *Repository) Stores() ledger.Stores {
	return ledger.Stores{
		Transactions: r.tr,
		Accounts:     r.ar,
		Balances:     r.br,
		Uploads:      r.ur,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// mapError translates driver errors into the ledger's sentinel errors.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return model.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
	default:
		return err
	}
}

// expectOne reports model.ErrNotFound when an update touched no row.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func formatDate(t time.Time) string { return t.UTC().Format(dateLayout) }
func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date %q: %w", s, err)
	}
	return t, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
