package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fintrack-app/fintrack/internal/middleware"
	"github.com/fintrack-app/fintrack/internal/repo"
)

// ==========================
// IncomeHandler
// ==========================
type IncomeHandler struct {
	Incomes *repo.IncomeRepo
}

// ==========================
// Create Income
// ==========================
// The one ownership check in the API: the userId in the body must match the
// authenticated identity. Reads, updates and deletes below carry no such
// check.
func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID      *int       `json:"userId" validate:"required"`
		Amount      *float64   `json:"amount" validate:"required"`
		Description *string    `json:"description" validate:"required"`
		IncomeDate  *time.Time `json:"incomeDate" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if *input.UserID != identity.ID {
		JSONError(w, "wrong user id", http.StatusForbidden)
		return
	}

	income, err := h.Incomes.Create(r.Context(), *input.UserID, *input.Amount, *input.Description, *input.IncomeDate)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, income)
}

// ==========================
// Get Income
// ==========================
// JSON null when the row does not exist.
func (h *IncomeHandler) GetIncome(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid income id", http.StatusBadRequest)
		return
	}

	income, err := h.Incomes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, income)
}

// ==========================
// List Incomes By User
// ==========================
func (h *IncomeHandler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		JSONError(w, "invalid or missing user_id", http.StatusBadRequest)
		return
	}

	incomes, err := h.Incomes.ListByUserID(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, incomes)
}

// ==========================
// Update Income (partial)
// ==========================
func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid income id", http.StatusBadRequest)
		return
	}

	var input struct {
		Amount      *float64   `json:"amount"`
		Description *string    `json:"description"`
		IncomeDate  *time.Time `json:"incomeDate"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	income, err := h.Incomes.Update(r.Context(), id, input.Amount, input.Description, input.IncomeDate)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "income not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, income)
}

// ==========================
// Delete Income
// ==========================
// Returns the pre-deletion snapshot.
func (h *IncomeHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid income id", http.StatusBadRequest)
		return
	}

	income, err := h.Incomes.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "income not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, income)
}
