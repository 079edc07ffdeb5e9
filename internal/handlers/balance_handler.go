package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/benjamin-thomas/pfm2-sub000/internal/ledger"
	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
)

// BalanceHandler serves the two derived views: per-account net balances and
// the per-account running-balance ledger. Both recompute from the full
// transaction snapshot on every request.
type BalanceHandler struct {
	transactions storage.TransactionStore
	accounts     storage.AccountStore
	categories   storage.CategoryStore
}

func NewBalanceHandler(transactions storage.TransactionStore, accounts storage.AccountStore, categories storage.CategoryStore) *BalanceHandler {
	return &BalanceHandler{
		transactions: transactions,
		accounts:     accounts,
		categories:   categories,
	}
}

// Balances returns the net balance of every account touched by a transaction
// @Summary List account balances
// @Description Net signed balance per account, zero balances omitted, ordered by display position
// @Tags balances
// @Produce json
// @Param budgetId query int false "Scope to one budget"
// @Success 200 {array} models.AccountBalance
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/balances [get]
func (h *BalanceHandler) Balances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		txs []models.Transaction
		err error
	)
	if budgetParam := r.URL.Query().Get("budgetId"); budgetParam != "" {
		budgetID, convErr := strconv.Atoi(budgetParam)
		if convErr != nil {
			SendErrorResponse(w, "Invalid budgetId", http.StatusBadRequest, nil)
			return
		}
		txs, err = h.transactions.ListByBudget(ctx, budgetID)
	} else {
		txs, err = h.transactions.List(ctx)
	}
	if err != nil {
		log.Printf("[BALANCE] Failed to list transactions: %v", err)
		SendErrorResponse(w, "Failed to fetch balances", http.StatusInternalServerError, nil)
		return
	}

	accounts, err := h.accounts.ListAccounts(ctx)
	if err != nil {
		log.Printf("[BALANCE] Failed to list accounts: %v", err)
		SendErrorResponse(w, "Failed to fetch balances", http.StatusInternalServerError, nil)
		return
	}

	categories, err := h.categories.ListCategories(ctx)
	if err != nil {
		log.Printf("[BALANCE] Failed to list categories: %v", err)
		SendErrorResponse(w, "Failed to fetch balances", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, ledger.Balances(txs, accounts, categories))
}

// Ledger returns one account's running-balance ledger
// @Summary Get account ledger
// @Description Transactions involving the account, newest first, with flow and running balance
// @Tags balances
// @Produce json
// @Param accountId path int true "Viewing account ID"
// @Success 200 {array} models.LedgerEntry
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/ledger/{accountId} [get]
func (h *BalanceHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, err := strconv.Atoi(chi.URLParam(r, "accountId"))
	if err != nil {
		SendErrorResponse(w, "Invalid account id", http.StatusBadRequest, nil)
		return
	}

	txs, err := h.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		log.Printf("[LEDGER] Failed to list transactions for account %d: %v", accountID, err)
		SendErrorResponse(w, "Failed to fetch ledger", http.StatusInternalServerError, nil)
		return
	}

	accounts, err := h.accounts.ListAccounts(ctx)
	if err != nil {
		log.Printf("[LEDGER] Failed to list accounts: %v", err)
		SendErrorResponse(w, "Failed to fetch ledger", http.StatusInternalServerError, nil)
		return
	}

	// An unknown account and an account with no transactions both come back
	// as an empty ledger; this layer does not tell them apart.
	writeJSON(w, http.StatusOK, ledger.ForAccount(txs, accounts, accountID))
}
