// Package memory implements the storage contracts over mutex-guarded maps.
// It backs tests and zero-setup runs; semantics must stay interchangeable
// with the postgres adapter.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
)

// Store holds all records in memory. Id sequences are owned by the store
// instance so parallel tests never share counters.
type Store struct {
	mu           sync.Mutex
	transactions map[int]models.Transaction
	accounts     map[int]models.Account
	categories   map[int]models.Category
	txSeq        int
	accountSeq   int
	categorySeq  int
	now          func() time.Time
}

func New() *Store {
	return &Store{
		transactions: make(map[int]models.Transaction),
		accounts:     make(map[int]models.Account),
		categories:   make(map[int]models.Category),
		txSeq:        1,
		accountSeq:   1,
		categorySeq:  1,
		now:          time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedCategory inserts a category and returns it with its assigned id.
func (s *Store) SeedCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := models.Category{
		ID:        s.categorySeq,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categorySeq++
	s.categories[c.ID] = c
	return c
}

// SeedAccount inserts an account and returns it with its assigned id.
func (s *Store) SeedAccount(categoryID int, name string, position int, system bool) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a := models.Account{
		ID:         s.accountSeq,
		CategoryID: categoryID,
		Name:       name,
		Position:   position,
		System:     system,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.accountSeq++
	s.accounts[a.ID] = a
	return a
}

func (s *Store) List(ctx context.Context) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(models.Transaction) bool { return true }), nil
}

func (s *Store) ListByAccount(ctx context.Context, accountID int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(tx models.Transaction) bool {
		return tx.FromAccountID == accountID || tx.ToAccountID == accountID
	}), nil
}

func (s *Store) ListByBudget(ctx context.Context, budgetID int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(tx models.Transaction) bool {
		return tx.BudgetID != nil && *tx.BudgetID == budgetID
	}), nil
}

// collect snapshots matching transactions in id order. Callers hold the lock.
func (s *Store) collect(match func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if match(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(ctx context.Context, id int) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &tx, nil
}

func (s *Store) Create(ctx context.Context, nt models.NewTransaction) (*models.Transaction, error) {
	if nt.FromAccountID == nt.ToAccountID {
		return nil, storage.ErrSameAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	tx := models.Transaction{
		ID:            s.txSeq,
		FromAccountID: nt.FromAccountID,
		ToAccountID:   nt.ToAccountID,
		BudgetID:      nt.BudgetID,
		Date:          nt.Date,
		Descr:         nt.Descr,
		Cents:         nt.Cents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.txSeq++
	s.transactions[tx.ID] = tx
	return &tx, nil
}

func (s *Store) Update(ctx context.Context, id int, nt models.NewTransaction) (*models.Transaction, error) {
	if nt.FromAccountID == nt.ToAccountID {
		return nil, storage.ErrSameAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	tx.FromAccountID = nt.FromAccountID
	tx.ToAccountID = nt.ToAccountID
	tx.BudgetID = nt.BudgetID
	tx.Date = nt.Date
	tx.Descr = nt.Descr
	tx.Cents = nt.Cents
	tx.UpdatedAt = s.now()
	s.transactions[id] = tx
	return &tx, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int) (storage.DeleteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	if a.System {
		return storage.RejectedSystemAccount, nil
	}
	for _, tx := range s.transactions {
		if tx.FromAccountID == id || tx.ToAccountID == id {
			return storage.RejectedHasTransactions, nil
		}
	}
	delete(s.accounts, id)
	return storage.Deleted, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var (
	_ storage.TransactionStore = (*Store)(nil)
	_ storage.AccountStore     = (*Store)(nil)
	_ storage.CategoryStore    = (*Store)(nil)
)
