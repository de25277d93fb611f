package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

func TestTransactionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(transactionTestSuite))
}

type transactionTestSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo ledger.TransactionRepository
}

func (s *transactionTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)
	s.repo = NewSQLRepository(s.db).GetTransactionRepository()
}

func (s *transactionTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.db.Close()
}

var transactionRowColumns = []string{
	"id", "owner_id", "account_id", "file_id", "external_id",
	"document_number", "document_date", "transaction_date", "amount", "currency",
	"payer_name", "payer_inn", "payer_account",
	"recipient_name", "recipient_inn", "recipient_account",
	"payment_purpose", "account_number", "direction", "created_at", "updated_at",
}

func (s *transactionTestSuite) TestFindByExternalID() {
	query, args, err := buildFindTransactionQuery("owner-1", "key-12")
	require.NoError(s.T(), err)

	testCases := []struct {
		name    string
		setup   func()
		wantErr error
	}{
		{
			name: "found",
			setup: func() {
				s.mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(driverArgs(args)...).
					WillReturnRows(sqlmock.NewRows(transactionRowColumns).AddRow(
						"tx-1", "owner-1", "acc-1", "", "key-12",
						"12", "2025-11-02", "2025-11-03T00:00:00Z", "15000.5", "RUB",
						`ООО "Финсплит"`, "7700000001", "40702810000000000001",
						"OOO Example", "1234567890", "40702810900000000002",
						"Оплата по счету 45", "40702810000000000001", "expense",
						"2025-12-01T09:30:00Z", "2025-12-01T09:30:00Z",
					))
			},
		},
		{
			name: "missing row",
			setup: func() {
				s.mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(driverArgs(args)...).
					WillReturnRows(sqlmock.NewRows(transactionRowColumns))
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "database error",
			setup: func() {
				s.mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(driverArgs(args)...).
					WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.setup()
			got, err := s.repo.FindByExternalID(context.TODO(), "owner-1", "key-12")
			if tc.wantErr != nil {
				assert.ErrorIs(s.T(), err, tc.wantErr)
				return
			}
			require.NoError(s.T(), err)
			want := sampleTransaction()
			assert.Equal(s.T(), want.ID, got.ID)
			assert.Equal(s.T(), want.DocumentDate, got.DocumentDate)
			assert.Equal(s.T(), want.TransactionDate, got.TransactionDate)
			assert.True(s.T(), want.Amount.Equal(got.Amount))
			assert.Equal(s.T(), model.DirectionExpense, got.Direction)
			assert.Equal(s.T(), testNow, got.CreatedAt)
			assert.Empty(s.T(), got.FileID)
		})
	}
}

func (s *transactionTestSuite) TestCreate() {
	query, _, err := buildCreateTransactionQuery(sampleTransaction())
	require.NoError(s.T(), err)

	s.Run("inserted", func() {
		s.mock.ExpectExec(regexp.QuoteMeta(query)).WillReturnResult(sqlmock.NewResult(1, 1))
		assert.NoError(s.T(), s.repo.Create(context.TODO(), sampleTransaction()))
	})

	s.Run("unique violation", func() {
		s.mock.ExpectExec(regexp.QuoteMeta(query)).
			WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: transactions.owner_id, transactions.external_id (2067)"))
		err := s.repo.Create(context.TODO(), sampleTransaction())
		assert.ErrorIs(s.T(), err, model.ErrDuplicate)
	})
}

func (s *transactionTestSuite) TestUpdate() {
	query, _, err := buildUpdateTransactionQuery(sampleTransaction())
	require.NoError(s.T(), err)

	s.Run("updated", func() {
		s.mock.ExpectExec(regexp.QuoteMeta(query)).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(s.T(), s.repo.Update(context.TODO(), sampleTransaction()))
	})

	s.Run("no such row", func() {
		s.mock.ExpectExec(regexp.QuoteMeta(query)).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(s.T(), s.repo.Update(context.TODO(), sampleTransaction()), model.ErrNotFound)
	})
}

func (s *transactionTestSuite) TestListByOwner() {
	query, args, err := buildListTransactionsQuery("owner-1")
	require.NoError(s.T(), err)

	s.mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(driverArgs(args)...).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns).AddRow(
			"tx-1", "owner-1", "", "", "key-12",
			"12", "2025-11-02", "not a time", "15000.5", "RUB",
			"", "", "", "", "", "", "", "", "expense",
			"2025-12-01T09:30:00Z", "2025-12-01T09:30:00Z",
		))
	_, err = s.repo.ListByOwner(context.TODO(), "owner-1")
	assert.ErrorContains(s.T(), err, `parsing stored time "not a time"`)
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), model.ErrNotFound)
	assert.ErrorIs(t, mapError(errors.New("UNIQUE constraint failed: accounts.owner_id, accounts.number")), model.ErrDuplicate)
	assert.Equal(t, assert.AnError, mapError(assert.AnError))
}
