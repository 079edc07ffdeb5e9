package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
)

const (
	openingID   = 1
	checkingID  = 2
	groceriesID = 3
	employerID  = 4
)

func testAccounts() []models.Account {
	return []models.Account{
		{ID: openingID, CategoryID: 1, Name: "OpeningBalance", Position: 0, System: true},
		{ID: checkingID, CategoryID: 2, Name: "Checking", Position: 1},
		{ID: groceriesID, CategoryID: 3, Name: "Groceries", Position: 2},
		{ID: employerID, CategoryID: 4, Name: "Employer", Position: 3},
	}
}

func testCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Equity"},
		{ID: 2, Name: "Assets"},
		{ID: 3, Name: "Expenses"},
		{ID: 4, Name: "Income"},
	}
}

func tx(id, from, to int, date int64, cents int64) models.Transaction {
	return models.Transaction{
		ID:            id,
		FromAccountID: from,
		ToAccountID:   to,
		Date:          date,
		Cents:         cents,
	}
}

func TestBalances(t *testing.T) {
	accounts := testAccounts()
	categories := testCategories()

	t.Run("single transfer produces opposite balances summing to zero", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, employerID, checkingID, 100, 100_000),
		}

		balances := Balances(txs, accounts, categories)
		require.Len(t, balances, 2)

		byAccount := make(map[int]models.AccountBalance)
		var sum int64
		for _, b := range balances {
			byAccount[b.AccountID] = b
			sum += b.Balance
		}
		assert.Equal(t, int64(0), sum)
		assert.Equal(t, int64(100_000), byAccount[checkingID].Balance)
		assert.Equal(t, int64(-100_000), byAccount[employerID].Balance)
	})

	t.Run("balances always sum to zero", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, openingID, checkingID, 100, 250_000),
			tx(2, checkingID, groceriesID, 200, 31_450),
			tx(3, employerID, checkingID, 300, 300_000),
			tx(4, checkingID, groceriesID, 300, 12_000),
		}

		var sum int64
		for _, b := range Balances(txs, accounts, categories) {
			sum += b.Balance
		}
		assert.Equal(t, int64(0), sum)
	})

	t.Run("reversed transfer nets to zero and drops both accounts", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, checkingID, groceriesID, 100, 5_000),
			tx(2, groceriesID, checkingID, 200, 5_000),
		}

		balances := Balances(txs, accounts, categories)
		assert.Empty(t, balances)
	})

	t.Run("joins category metadata", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, checkingID, groceriesID, 100, 5_000),
		}

		balances := Balances(txs, accounts, categories)
		require.Len(t, balances, 2)
		assert.Equal(t, "Checking", balances[0].AccountName)
		assert.Equal(t, "Assets", balances[0].CategoryName)
		assert.Equal(t, "Groceries", balances[1].AccountName)
		assert.Equal(t, "Expenses", balances[1].CategoryName)
	})

	t.Run("ordered by account position", func(t *testing.T) {
		shuffled := []models.Account{
			{ID: groceriesID, Name: "Groceries", Position: 2},
			{ID: checkingID, Name: "Checking", Position: 1},
			{ID: employerID, Name: "Employer", Position: 3},
		}
		txs := []models.Transaction{
			tx(1, employerID, checkingID, 100, 1_000),
			tx(2, checkingID, groceriesID, 100, 400),
		}

		balances := Balances(txs, shuffled, nil)
		require.Len(t, balances, 3)
		assert.Equal(t, checkingID, balances[0].AccountID)
		assert.Equal(t, groceriesID, balances[1].AccountID)
		assert.Equal(t, employerID, balances[2].AccountID)
	})

	t.Run("re-aggregation is idempotent", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, openingID, checkingID, 100, 250_000),
			tx(2, checkingID, groceriesID, 200, 31_450),
		}

		first := Balances(txs, accounts, categories)
		second := Balances(txs, accounts, categories)
		assert.Equal(t, first, second)
	})

	t.Run("empty transaction set yields empty list", func(t *testing.T) {
		assert.Empty(t, Balances(nil, accounts, categories))
	})
}

func TestForAccount(t *testing.T) {
	accounts := testAccounts()

	t.Run("same-day opening balance applies before the expense", func(t *testing.T) {
		d1 := int64(1_700_000_000)
		txs := []models.Transaction{
			// input deliberately newest-id first
			tx(2, checkingID, groceriesID, d1, 25_000),
			tx(1, openingID, checkingID, d1, 100_000),
		}

		entries := ForAccount(txs, accounts, checkingID)
		require.Len(t, entries, 2)

		// descending: the grocery expense comes first
		assert.Equal(t, 2, entries[0].ID)
		assert.Equal(t, int64(-25_000), entries[0].FlowCents)
		assert.Equal(t, int64(100_000), entries[0].PriorBalanceCents)
		assert.Equal(t, int64(75_000), entries[0].RunningBalanceCents)

		assert.Equal(t, 1, entries[1].ID)
		assert.Equal(t, int64(100_000), entries[1].FlowCents)
		assert.Equal(t, int64(0), entries[1].PriorBalanceCents)
		assert.Equal(t, int64(100_000), entries[1].RunningBalanceCents)
	})

	t.Run("date beats id when dates differ", func(t *testing.T) {
		jan1, jan2, jan3 := int64(100), int64(200), int64(300)
		txs := []models.Transaction{
			tx(3, openingID, checkingID, jan1, 1_000),
			tx(2, checkingID, groceriesID, jan2, 100),
			tx(1, checkingID, groceriesID, jan3, 200),
		}

		entries := ForAccount(txs, accounts, checkingID)
		require.Len(t, entries, 3)
		assert.Equal(t, jan3, entries[0].Date)
		assert.Equal(t, jan1, entries[2].Date)
	})

	t.Run("running balance folds across consecutive entries", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, openingID, checkingID, 100, 250_000),
			tx(2, checkingID, groceriesID, 200, 31_450),
			tx(3, employerID, checkingID, 300, 300_000),
			tx(4, checkingID, groceriesID, 400, 12_000),
		}

		entries := ForAccount(txs, accounts, checkingID)
		require.Len(t, entries, 4)

		// walk ascending (reverse of output order)
		prev := int64(0)
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			assert.Equal(t, prev, e.PriorBalanceCents)
			assert.Equal(t, e.PriorBalanceCents+e.FlowCents, e.RunningBalanceCents)
			prev = e.RunningBalanceCents
		}
		assert.Equal(t, int64(0), entries[len(entries)-1].PriorBalanceCents)
	})

	t.Run("flow is negative exactly when the viewing account pays", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, checkingID, groceriesID, 100, 5_000),
			tx(2, employerID, checkingID, 200, 9_000),
		}

		for _, e := range ForAccount(txs, accounts, checkingID) {
			if e.FromAccountID == checkingID {
				assert.Negative(t, e.FlowCents)
			} else {
				assert.Positive(t, e.FlowCents)
			}
		}
	})

	t.Run("resolves account labels", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, employerID, checkingID, 100, 9_000),
		}

		entries := ForAccount(txs, accounts, checkingID)
		require.Len(t, entries, 1)
		assert.Equal(t, "Employer", entries[0].FromAccountName)
		assert.Equal(t, "Checking", entries[0].ToAccountName)
	})

	t.Run("unknown account falls back to placeholder label", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, 999, checkingID, 100, 9_000),
		}

		entries := ForAccount(txs, accounts, checkingID)
		require.Len(t, entries, 1)
		assert.Equal(t, UnknownAccountLabel, entries[0].FromAccountName)
	})

	t.Run("account with no matches yields empty ledger", func(t *testing.T) {
		txs := []models.Transaction{
			tx(1, employerID, checkingID, 100, 9_000),
		}

		assert.Empty(t, ForAccount(txs, accounts, groceriesID))
	})

	t.Run("does not reorder the caller's slice", func(t *testing.T) {
		txs := []models.Transaction{
			tx(2, checkingID, groceriesID, 200, 100),
			tx(1, openingID, checkingID, 100, 1_000),
		}

		ForAccount(txs, accounts, checkingID)
		assert.Equal(t, 2, txs[0].ID)
		assert.Equal(t, 1, txs[1].ID)
	})
}

// The ledger's newest entry must agree with the aggregate balance for the
// same account: two views over one snapshot cannot disagree.
func TestLedgerMatchesBalances(t *testing.T) {
	accounts := testAccounts()
	categories := testCategories()

	txs := []models.Transaction{
		tx(1, openingID, checkingID, 100, 250_000),
		tx(2, checkingID, groceriesID, 200, 31_450),
		tx(3, employerID, checkingID, 200, 300_000),
		tx(4, checkingID, groceriesID, 300, 12_000),
	}

	entries := ForAccount(txs, accounts, checkingID)
	require.NotEmpty(t, entries)

	var checkingBalance int64
	for _, b := range Balances(txs, accounts, categories) {
		if b.AccountID == checkingID {
			checkingBalance = b.Balance
		}
	}

	assert.Equal(t, checkingBalance, entries[0].RunningBalanceCents)
}
