package ledger

import (
	"sort"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
)

// CompareChrono is the one ordering rule for transactions: date ascending,
// ties broken by id ascending. Two transactions dated the same day must
// resolve in id order or the running balance becomes nondeterministic — an
// opening-balance transaction and a same-day expense have to apply in
// creation order. Every consumer that sorts transactions (ledger, listings,
// charts) goes through this comparator.
func CompareChrono(a, b models.Transaction) int {
	switch {
	case a.Date < b.Date:
		return -1
	case a.Date > b.Date:
		return 1
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// SortChrono sorts txs oldest-first in place.
func SortChrono(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return CompareChrono(txs[i], txs[j]) < 0
	})
}

// SortChronoDesc sorts txs newest-first in place.
func SortChronoDesc(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return CompareChrono(txs[i], txs[j]) > 0
	})
}
