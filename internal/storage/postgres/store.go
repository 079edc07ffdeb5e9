// Package postgres implements the storage contracts over database/sql. All
// balance and ledger math stays upstream in the ledger package; this adapter
// only does row plumbing so the two backends cannot drift apart.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const txColumns = `id, from_account_id, to_account_id, budget_id, date, descr, cents, created_at, updated_at`

func (s *Store) List(ctx context.Context) ([]models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions ORDER BY date, id`, txColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) ListByAccount(ctx context.Context, accountID int) ([]models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE from_account_id = $1 OR to_account_id = $1 ORDER BY date, id`, txColumns)
	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) ListByBudget(ctx context.Context, budgetID int) ([]models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE budget_id = $1 ORDER BY date, id`, txColumns)
	rows, err := s.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) Get(ctx context.Context, id int) (*models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1`, txColumns)
	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Store) Create(ctx context.Context, nt models.NewTransaction) (*models.Transaction, error) {
	if nt.FromAccountID == nt.ToAccountID {
		return nil, storage.ErrSameAccount
	}

	tx := models.Transaction{
		FromAccountID: nt.FromAccountID,
		ToAccountID:   nt.ToAccountID,
		BudgetID:      nt.BudgetID,
		Date:          nt.Date,
		Descr:         nt.Descr,
		Cents:         nt.Cents,
	}
	err := s.db.QueryRowContext(ctx, `INSERT INTO transactions (from_account_id, to_account_id, budget_id, date, descr, cents, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		nt.FromAccountID, nt.ToAccountID, nullableInt(nt.BudgetID), nt.Date, nt.Descr, nt.Cents,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *Store) Update(ctx context.Context, id int, nt models.NewTransaction) (*models.Transaction, error) {
	if nt.FromAccountID == nt.ToAccountID {
		return nil, storage.ErrSameAccount
	}

	tx := models.Transaction{
		ID:            id,
		FromAccountID: nt.FromAccountID,
		ToAccountID:   nt.ToAccountID,
		BudgetID:      nt.BudgetID,
		Date:          nt.Date,
		Descr:         nt.Descr,
		Cents:         nt.Cents,
	}
	err := s.db.QueryRowContext(ctx, `UPDATE transactions SET from_account_id = $1, to_account_id = $2, budget_id = $3, date = $4, descr = $5, cents = $6, updated_at = NOW() WHERE id = $7 RETURNING created_at, updated_at`,
		nt.FromAccountID, nt.ToAccountID, nullableInt(nt.BudgetID), nt.Date, nt.Descr, nt.Cents, id,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, category_id, name, position, system, created_at, updated_at FROM accounts ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.CategoryID, &a.Name, &a.Position, &a.System, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, `SELECT id, category_id, name, position, system, created_at, updated_at FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.CategoryID, &a.Name, &a.Position, &a.System, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int) (storage.DeleteOutcome, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer dbTx.Rollback()

	var system bool
	err = dbTx.QueryRowContext(ctx, `SELECT system FROM accounts WHERE id = $1`, id).Scan(&system)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if system {
		return storage.RejectedSystemAccount, nil
	}

	var referenced bool
	err = dbTx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE from_account_id = $1 OR to_account_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return 0, err
	}
	if referenced {
		return storage.RejectedHasTransactions, nil
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return 0, err
	}
	return storage.Deleted, dbTx.Commit()
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var budgetID sql.NullInt64
	err := row.Scan(&tx.ID, &tx.FromAccountID, &tx.ToAccountID, &budgetID, &tx.Date, &tx.Descr, &tx.Cents, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if budgetID.Valid {
		id := int(budgetID.Int64)
		tx.BudgetID = &id
	}
	return &tx, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

var (
	_ storage.TransactionStore = (*Store)(nil)
	_ storage.AccountStore     = (*Store)(nil)
	_ storage.CategoryStore    = (*Store)(nil)
)
