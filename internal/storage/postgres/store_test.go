package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
)

var txCols = []string{"id", "from_account_id", "to_account_id", "budget_id", "date", "descr", "cents", "created_at", "updated_at"}

func TestStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	now := time.Now()

	t.Run("scans rows including null budget", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM transactions ORDER BY date, id").
			WillReturnRows(sqlmock.NewRows(txCols).
				AddRow(1, 2, 3, nil, int64(100), "groceries", int64(5000), now, now).
				AddRow(2, 3, 2, int64(7), int64(200), "refund", int64(1200), now, now))

		txs, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, txs, 2)

		assert.Equal(t, 1, txs[0].ID)
		assert.Nil(t, txs[0].BudgetID)
		assert.Equal(t, int64(5000), txs[0].Cents)

		require.NotNil(t, txs[1].BudgetID)
		assert.Equal(t, 7, *txs[1].BudgetID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_ListByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE from_account_id = \$1 OR to_account_id = \$1 ORDER BY date, id`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(txCols).
			AddRow(1, 2, 3, nil, int64(100), "x", int64(500), time.Now(), time.Now()))

	txs, err := store.ListByAccount(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	t.Run("missing id maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id = \$1`).
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows(txCols))

		_, err := store.Get(context.Background(), 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	now := time.Now()

	t.Run("same-account transfer is rejected before touching the db", func(t *testing.T) {
		_, err := store.Create(context.Background(), models.NewTransaction{
			FromAccountID: 2,
			ToAccountID:   2,
			Date:          100,
			Cents:         500,
		})
		assert.ErrorIs(t, err, storage.ErrSameAccount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert returns assigned id and timestamps", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(2, 3, nil, int64(100), "coffee", int64(450)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(11, now, now))

		tx, err := store.Create(context.Background(), models.NewTransaction{
			FromAccountID: 2,
			ToAccountID:   3,
			Date:          100,
			Descr:         "coffee",
			Cents:         450,
		})
		require.NoError(t, err)
		assert.Equal(t, 11, tx.ID)
		assert.Equal(t, now, tx.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	t.Run("missing id maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE transactions SET").
			WithArgs(2, 3, nil, int64(100), "x", int64(500), 42).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		_, err := store.Update(context.Background(), 42, models.NewTransaction{
			FromAccountID: 2,
			ToAccountID:   3,
			Date:          100,
			Descr:         "x",
			Cents:         500,
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	t.Run("removes the row", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM transactions WHERE id = \$1`).
			WithArgs(11).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Delete(context.Background(), 11))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM transactions WHERE id = \$1`).
			WithArgs(42).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.Delete(context.Background(), 42), storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_DeleteAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	t.Run("system account is rejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT system FROM accounts WHERE id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"system"}).AddRow(true))
		mock.ExpectRollback()

		outcome, err := store.DeleteAccount(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, storage.RejectedSystemAccount, outcome)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("referenced account is rejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT system FROM accounts WHERE id = \$1`).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"system"}).AddRow(false))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		outcome, err := store.DeleteAccount(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, storage.RejectedHasTransactions, outcome)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreferenced non-system account is deleted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT system FROM accounts WHERE id = \$1`).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"system"}).AddRow(false))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		outcome, err := store.DeleteAccount(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, storage.Deleted, outcome)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT system FROM accounts WHERE id = \$1`).
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows([]string{"system"}))
		mock.ExpectRollback()

		_, err := store.DeleteAccount(context.Background(), 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
