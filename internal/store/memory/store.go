// Package memory is an in-memory ledger store, used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// Store keeps ledger rows in maps and enforces the same unique keys as the
// SQL schema. It is safe for concurrent use; rows are copied in and out.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]*model.LedgerTransaction // by ID
	txByKey      map[[2]string]string                // (owner, external id) -> ID
	accounts     map[string]*model.Account
	accByNumber  map[[2]string]string // (owner, number) -> ID
	balances     map[string]*model.AccountBalance
	balByDate    map[[2]string]string // (account, date) -> ID
	uploads      map[string]*model.UploadedFile
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]*model.LedgerTransaction),
		txByKey:      make(map[[2]string]string),
		accounts:     make(map[string]*model.Account),
		accByNumber:  make(map[[2]string]string),
		balances:     make(map[string]*model.AccountBalance),
		balByDate:    make(map[[2]string]string),
		uploads:      make(map[string]*model.UploadedFile),
	}
}

// Transactions returns the transaction repository view.
func (s *Store) Transactions() *Transactions { return &Transactions{s: s} }

// Accounts returns the account repository view.
func (s *Store) Accounts() *Accounts { return &Accounts{s: s} }

// Balances returns the balance repository view.
func (s *Store) Balances() *Balances { return &Balances{s: s} }

// Uploads returns the upload repository view.
func (s *Store) Uploads() *Uploads { return &Uploads{s: s} }

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

// Transactions stores ledger transactions.
type Transactions struct{ s *Store }

func (r *Transactions) FindByExternalID(_ context.Context, ownerID, externalID string) (*model.LedgerTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.txByKey[[2]string{ownerID, externalID}]
	if !ok {
		return nil, model.ErrNotFound
	}
	t := *r.s.transactions[id]
	return &t, nil
}

func (r *Transactions) ListByOwner(_ context.Context, ownerID string) ([]model.LedgerTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.LedgerTransaction
	for _, t := range r.s.transactions {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DocumentDate.Equal(out[j].DocumentDate) {
			return out[i].DocumentDate.Before(out[j].DocumentDate)
		}
		return out[i].DocumentNumber < out[j].DocumentNumber
	})
	return out, nil
}

func (r *Transactions) Create(_ context.Context, t *model.LedgerTransaction) error {
	if t.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := [2]string{t.OwnerID, t.ExternalID}
	if _, ok := r.s.txByKey[key]; ok {
		return fmt.Errorf("transaction %s: %w", t.ExternalID, model.ErrDuplicate)
	}
	c := *t
	r.s.transactions[t.ID] = &c
	r.s.txByKey[key] = t.ID
	return nil
}

func (r *Transactions) Update(_ context.Context, t *model.LedgerTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.transactions[t.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", t.ID, model.ErrNotFound)
	}
	c := *t
	r.s.transactions[t.ID] = &c
	return nil
}

// Accounts stores accounts.
type Accounts struct{ s *Store }

func (r *Accounts) FindByOwnerAndNumber(_ context.Context, ownerID, number string) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.accByNumber[[2]string{ownerID, number}]
	if !ok {
		return nil, model.ErrNotFound
	}
	a := *r.s.accounts[id]
	return &a, nil
}

func (r *Accounts) ListByOwner(_ context.Context, ownerID string) ([]model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Account
	for _, a := range r.s.accounts {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *Accounts) Create(_ context.Context, a *model.Account) error {
	if a.ID == "" {
		return fmt.Errorf("account ID is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := [2]string{a.OwnerID, a.Number}
	if _, ok := r.s.accByNumber[key]; ok {
		return fmt.Errorf("account %s: %w", a.Number, model.ErrDuplicate)
	}
	c := *a
	r.s.accounts[a.ID] = &c
	r.s.accByNumber[key] = a.ID
	return nil
}

func (r *Accounts) Update(_ context.Context, a *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[a.ID]; !ok {
		return fmt.Errorf("account %s: %w", a.ID, model.ErrNotFound)
	}
	c := *a
	r.s.accounts[a.ID] = &c
	return nil
}

// Balances stores balance snapshots.
type Balances struct{ s *Store }

func (r *Balances) FindByAccountAndDate(_ context.Context, accountID string, date time.Time) (*model.AccountBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.balByDate[[2]string{accountID, dateKey(date)}]
	if !ok {
		return nil, model.ErrNotFound
	}
	b := *r.s.balances[id]
	return &b, nil
}

func (r *Balances) ListByAccount(_ context.Context, accountID string) ([]model.AccountBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.AccountBalance
	for _, b := range r.s.balances {
		if b.AccountID == accountID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BalanceDate.Before(out[j].BalanceDate) })
	return out, nil
}

func (r *Balances) Create(_ context.Context, b *model.AccountBalance) error {
	if b.ID == "" {
		return fmt.Errorf("balance ID is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := [2]string{b.AccountID, dateKey(b.BalanceDate)}
	if _, ok := r.s.balByDate[key]; ok {
		return fmt.Errorf("balance %s: %w", key[1], model.ErrDuplicate)
	}
	c := *b
	r.s.balances[b.ID] = &c
	r.s.balByDate[key] = b.ID
	return nil
}

func (r *Balances) Update(_ context.Context, b *model.AccountBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.balances[b.ID]; !ok {
		return fmt.Errorf("balance %s: %w", b.ID, model.ErrNotFound)
	}
	c := *b
	r.s.balances[b.ID] = &c
	return nil
}

// Uploads stores upload records.
type Uploads struct{ s *Store }

func (r *Uploads) Create(_ context.Context, f *model.UploadedFile) error {
	if f.ID == "" {
		return fmt.Errorf("upload ID is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.uploads[f.ID]; ok {
		return fmt.Errorf("upload %s: %w", f.ID, model.ErrDuplicate)
	}
	c := *f
	r.s.uploads[f.ID] = &c
	return nil
}

func (r *Uploads) Update(_ context.Context, f *model.UploadedFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.uploads[f.ID]; !ok {
		return fmt.Errorf("upload %s: %w", f.ID, model.ErrNotFound)
	}
	c := *f
	r.s.uploads[f.ID] = &c
	return nil
}

func (r *Uploads) ListByOwner(_ context.Context, ownerID string) ([]model.UploadedFile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.UploadedFile
	for _, f := range r.s.uploads {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}
