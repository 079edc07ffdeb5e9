// Package ledger holds the balance and running-ledger computations. The
// functions here are pure: they read a snapshot of the transaction set,
// perform the fold in memory, and never touch storage. Both the in-memory and
// the postgres-backed deployments run the same code over their own snapshot.
package ledger

import (
	"sort"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
)

// UnknownAccountLabel stands in for account names a transaction references
// but the account list does not contain. The ledger degrades to a placeholder
// instead of failing; referential integrity belongs to the storage layer.
const UnknownAccountLabel = "(unknown account)"

// Balances reduces txs into one net signed balance per account that appears
// on either side of at least one transaction. Accounts whose inflow and
// outflow cancel out exactly are dropped. Output is ordered by the account's
// display position, id as tie-break, so equal input always yields equal
// output.
func Balances(txs []models.Transaction, accounts []models.Account, categories []models.Category) []models.AccountBalance {
	type flow struct {
		added   int64
		removed int64
	}
	flows := make(map[int]*flow)
	touch := func(id int) *flow {
		f, ok := flows[id]
		if !ok {
			f = &flow{}
			flows[id] = f
		}
		return f
	}
	for _, tx := range txs {
		touch(tx.FromAccountID).removed += tx.Cents
		touch(tx.ToAccountID).added += tx.Cents
	}

	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	ordered := make([]models.Account, len(accounts))
	copy(ordered, accounts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].ID < ordered[j].ID
	})

	balances := make([]models.AccountBalance, 0, len(flows))
	for _, acc := range ordered {
		f, ok := flows[acc.ID]
		if !ok {
			continue
		}
		balance := f.added - f.removed
		if balance == 0 {
			continue
		}
		balances = append(balances, models.AccountBalance{
			AccountID:    acc.ID,
			AccountName:  acc.Name,
			CategoryID:   acc.CategoryID,
			CategoryName: categoryNames[acc.CategoryID],
			Balance:      balance,
		})
	}
	return balances
}

// ForAccount projects txs into accountID's ledger: the transactions where the
// account is either party, newest first, each annotated with flow direction
// and the balance immediately before and after it.
//
// The running balance is a fold over oldest-to-newest order, so the matched
// set is sorted ascending, walked once carrying the running total, and only
// then reversed for the newest-first contract. The balance fields keep the
// values computed during the ascending walk.
//
// A viewing account with no matching transactions yields an empty slice;
// whether the account exists at all is not this layer's question.
func ForAccount(txs []models.Transaction, accounts []models.Account, accountID int) []models.LedgerEntry {
	names := make(map[int]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	resolve := func(id int) string {
		if name, ok := names[id]; ok {
			return name
		}
		return UnknownAccountLabel
	}

	matched := make([]models.Transaction, 0)
	for _, tx := range txs {
		if tx.FromAccountID == accountID || tx.ToAccountID == accountID {
			matched = append(matched, tx)
		}
	}
	SortChrono(matched)

	entries := make([]models.LedgerEntry, 0, len(matched))
	var running int64
	for _, tx := range matched {
		flow := tx.Cents
		if tx.FromAccountID == accountID {
			flow = -tx.Cents
		}
		entry := models.LedgerEntry{
			Transaction:       tx,
			FromAccountName:   resolve(tx.FromAccountID),
			ToAccountName:     resolve(tx.ToAccountID),
			FlowCents:         flow,
			PriorBalanceCents: running,
		}
		running += flow
		entry.RunningBalanceCents = running
		entries = append(entries, entry)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}
