package models

import (
	"time"
)

// Account is a named bucket transactions move cents between. Position drives
// display ordering in balance listings; System marks seeded accounts (such as
// the opening-balance account) that must never be deleted.
type Account struct {
	ID         int       `json:"id" db:"id"`
	CategoryID int       `json:"categoryId" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Position   int       `json:"position" db:"position"`
	System     bool      `json:"system" db:"system"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Category classifies accounts for display purposes only; it plays no role in
// ledger math.
type Category struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AccountBalance is the net signed balance of one account over the full
// transaction set. Derived fresh on every query, never stored or cached.
type AccountBalance struct {
	AccountID    int    `json:"accountId"`
	AccountName  string `json:"accountName"`
	CategoryID   int    `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Balance      int64  `json:"balance"` // signed cents
}
