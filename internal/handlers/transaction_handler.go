package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/benjamin-thomas/pfm2-sub000/internal/events"
	"github.com/benjamin-thomas/pfm2-sub000/internal/ledger"
	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
)

type TransactionHandler struct {
	store     storage.TransactionStore
	events    *events.Publisher
	validator *ValidationHelper
}

func NewTransactionHandler(store storage.TransactionStore, publisher *events.Publisher) *TransactionHandler {
	return &TransactionHandler{
		store:     store,
		events:    publisher,
		validator: NewValidationHelper(),
	}
}

// List returns all transactions
// @Summary List transactions
// @Description List all transactions, most recent first
// @Tags transactions
// @Produce json
// @Success 200 {object} object{transactions=[]models.Transaction,count=int}
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.store.List(r.Context())
	if err != nil {
		log.Printf("[TRANSACTION] Failed to list transactions: %v", err)
		SendErrorResponse(w, "Failed to fetch transactions", http.StatusInternalServerError, nil)
		return
	}

	// newest first, same tie-break as the ledger view
	ledger.SortChronoDesc(txs)

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

// Get returns one transaction by id
// @Summary Get transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/transactions/{id} [get]
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "Invalid transaction id", http.StatusBadRequest, nil)
		return
	}

	tx, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[TRANSACTION] Failed to fetch transaction %d: %v", id, err)
		SendErrorResponse(w, "Failed to fetch transaction", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// Create records a new transaction
// @Summary Create a transaction
// @Description Record a double-entry transfer between two accounts
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.NewTransaction true "Transaction data"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	nt, ok := h.decodeNewTransaction(w, r)
	if !ok {
		return
	}

	tx, err := h.store.Create(r.Context(), nt)
	if err != nil {
		if errors.Is(err, storage.ErrSameAccount) {
			SendErrorResponse(w, "Cannot transfer to the same account", http.StatusBadRequest, nil)
			return
		}
		log.Printf("[TRANSACTION] Failed to create transaction: %v", err)
		SendErrorResponse(w, "Failed to create transaction", http.StatusInternalServerError, nil)
		return
	}

	if err := h.events.TransactionCreated(r.Context(), tx); err != nil {
		log.Printf("[TRANSACTION] Failed to publish created event for %d: %v", tx.ID, err)
	}

	writeJSON(w, http.StatusCreated, tx)
}

// Update replaces a transaction's mutable fields
// @Summary Update a transaction
// @Description Replace from/to/date/descr/cents wholesale; id and createdAt are preserved
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body models.NewTransaction true "Replacement fields"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/transactions/{id} [put]
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "Invalid transaction id", http.StatusBadRequest, nil)
		return
	}

	nt, ok := h.decodeNewTransaction(w, r)
	if !ok {
		return
	}

	tx, err := h.store.Update(r.Context(), id, nt)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
		case errors.Is(err, storage.ErrSameAccount):
			SendErrorResponse(w, "Cannot transfer to the same account", http.StatusBadRequest, nil)
		default:
			log.Printf("[TRANSACTION] Failed to update transaction %d: %v", id, err)
			SendErrorResponse(w, "Failed to update transaction", http.StatusInternalServerError, nil)
		}
		return
	}

	if err := h.events.TransactionUpdated(r.Context(), tx); err != nil {
		log.Printf("[TRANSACTION] Failed to publish updated event for %d: %v", id, err)
	}

	writeJSON(w, http.StatusOK, tx)
}

// Delete removes a transaction
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "Invalid transaction id", http.StatusBadRequest, nil)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[TRANSACTION] Failed to delete transaction %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete transaction", http.StatusInternalServerError, nil)
		return
	}

	if err := h.events.TransactionDeleted(r.Context(), id); err != nil {
		log.Printf("[TRANSACTION] Failed to publish deleted event for %d: %v", id, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) decodeNewTransaction(w http.ResponseWriter, r *http.Request) (models.NewTransaction, bool) {
	var nt models.NewTransaction

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&nt); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return nt, false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return nt, false
	}

	if err := h.validator.ValidateStruct(&nt); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return nt, false
	}

	return nt, true
}
