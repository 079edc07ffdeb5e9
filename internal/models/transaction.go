package models

import (
	"time"
)

// Transaction is a double-entry transfer: it decreases the from account and
// increases the to account by the same amount of cents. Records are immutable
// once created; an update replaces the mutable fields wholesale while
// preserving ID and CreatedAt.
type Transaction struct {
	ID            int       `json:"id" db:"id"`
	FromAccountID int       `json:"fromAccountId" db:"from_account_id"`
	ToAccountID   int       `json:"toAccountId" db:"to_account_id"`
	BudgetID      *int      `json:"budgetId,omitempty" db:"budget_id"`
	Date          int64     `json:"date" db:"date"` // unix seconds at midnight, not required to be unique
	Descr         string    `json:"descr" db:"descr"`
	Cents         int64     `json:"cents" db:"cents"` // magnitude; direction comes from from/to
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// NewTransaction is the constructor input for transaction create and update.
// The id and bookkeeping timestamps are assigned by the store.
type NewTransaction struct {
	FromAccountID int    `json:"fromAccountId" validate:"required,gt=0"`
	ToAccountID   int    `json:"toAccountId" validate:"required,gt=0,nefield=FromAccountID"`
	BudgetID      *int   `json:"budgetId,omitempty"`
	Date          int64  `json:"date" validate:"required"`
	Descr         string `json:"descr" validate:"max=200"`
	Cents         int64  `json:"cents" validate:"gte=0"`
}

// LedgerEntry is a Transaction seen from one viewing account: flow sign,
// resolved account labels, and the running balance immediately before and
// after the entry in chronological order. Derived, never stored.
type LedgerEntry struct {
	Transaction
	FromAccountName     string `json:"fromAccountName"`
	ToAccountName       string `json:"toAccountName"`
	FlowCents           int64  `json:"flowCents"` // negative when the viewing account is the from side
	PriorBalanceCents   int64  `json:"priorBalanceCents"`
	RunningBalanceCents int64  `json:"runningBalanceCents"`
}
