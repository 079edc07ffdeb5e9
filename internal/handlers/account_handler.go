package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
)

type AccountHandler struct {
	accounts   storage.AccountStore
	categories storage.CategoryStore
}

func NewAccountHandler(accounts storage.AccountStore, categories storage.CategoryStore) *AccountHandler {
	return &AccountHandler{
		accounts:   accounts,
		categories: categories,
	}
}

// ListAccounts returns all accounts in display order
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} models.Account
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		log.Printf("[ACCOUNT] Failed to list accounts: %v", err)
		SendErrorResponse(w, "Failed to fetch accounts", http.StatusInternalServerError, nil)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// ListCategories returns all categories
// @Summary List categories
// @Tags accounts
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/categories [get]
func (h *AccountHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		log.Printf("[ACCOUNT] Failed to list categories: %v", err)
		SendErrorResponse(w, "Failed to fetch categories", http.StatusInternalServerError, nil)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// DeleteAccount deletes an account unless a business rule rejects it
// @Summary Delete an account
// @Description Rejected with 409 for system accounts and accounts that still have transactions
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 204
// @Failure 404 {object} handlers.ErrorResponse
// @Failure 409 {object} handlers.ErrorResponse
// @Router /api/accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "Invalid account id", http.StatusBadRequest, nil)
		return
	}

	outcome, err := h.accounts.DeleteAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[ACCOUNT] Failed to delete account %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete account", http.StatusInternalServerError, nil)
		return
	}

	// every outcome handled; a new variant must be wired here explicitly
	switch outcome {
	case storage.Deleted:
		w.WriteHeader(http.StatusNoContent)
	case storage.RejectedSystemAccount:
		SendErrorResponse(w, "Cannot delete a system account", http.StatusConflict, nil)
	case storage.RejectedHasTransactions:
		SendErrorResponse(w, "Account still has transactions", http.StatusConflict, nil)
	default:
		panic(fmt.Sprintf("unhandled delete outcome %d", int(outcome)))
	}
}
