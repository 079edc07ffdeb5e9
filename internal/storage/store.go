// Package storage defines the contracts the ledger core consumes. Two
// adapters implement them: an in-memory store for tests and zero-setup runs,
// and a postgres store for persistence. Both must honor identical filtering
// and field semantics so the ledger math upstream never cares which one is
// wired in.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
)

var (
	// ErrNotFound signals a lookup for an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSameAccount rejects a transfer whose two sides are the same
	// account. Enforced at create/update time so stored data never
	// contains the case.
	ErrSameAccount = errors.New("from and to accounts must differ")
)

// TransactionStore is the transaction source and sink.
type TransactionStore interface {
	List(ctx context.Context) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID int) ([]models.Transaction, error)
	ListByBudget(ctx context.Context, budgetID int) ([]models.Transaction, error)
	Get(ctx context.Context, id int) (*models.Transaction, error)
	Create(ctx context.Context, nt models.NewTransaction) (*models.Transaction, error)
	Update(ctx context.Context, id int, nt models.NewTransaction) (*models.Transaction, error)
	Delete(ctx context.Context, id int) error
}

// AccountStore serves account metadata for label resolution and display
// ordering, plus deletion with its business-rule outcomes.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	GetAccount(ctx context.Context, id int) (*models.Account, error)
	DeleteAccount(ctx context.Context, id int) (DeleteOutcome, error)
}

// CategoryStore serves category labels.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// DeleteOutcome is the tagged result of an account deletion attempt. A
// rejection is a normal outcome the caller must branch on explicitly, not an
// error; errors are reserved for storage faults and unknown ids.
type DeleteOutcome int

const (
	Deleted DeleteOutcome = iota
	RejectedSystemAccount
	RejectedHasTransactions
)

func (o DeleteOutcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case RejectedSystemAccount:
		return "rejected: system account"
	case RejectedHasTransactions:
		return "rejected: account has transactions"
	default:
		panic(fmt.Sprintf("unhandled DeleteOutcome %d", int(o)))
	}
}
