package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// LoanHandler serves /loans endpoints. All routes run behind Authenticate.
type LoanHandler struct {
	loans *service.LoanService
	rs    *resp.Responder
}

// NewLoanHandler creates a LoanHandler.
func NewLoanHandler(loans *service.LoanService, rs *resp.Responder) *LoanHandler {
	return &LoanHandler{loans: loans, rs: rs}
}

// Borrow handles POST /loans.
func (h *LoanHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req domain.BorrowRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	user := middleware.UserFrom(r.Context())
	loan, err := h.loans.Borrow(r.Context(), user.ID, &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.Created(w, loan, "book borrowed")
}

// Return handles POST /loans/{id}/return.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	loan, err := h.loans.Return(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, loan, "book returned")
}

type loanListResponse struct {
	Loans      []*domain.Loan     `json:"loans"`
	Pagination *domain.Pagination `json:"pagination"`
}

// ListMine handles GET /loans.
func (h *LoanHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	h.listFor(w, r, user.ID)
}

// ListByUser handles GET /users/{userId}/loans behind the ownership check.
func (h *LoanHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, chi.URLParam(r, "userId"))
}

func (h *LoanHandler) listFor(w http.ResponseWriter, r *http.Request, userID string) {
	page, limit := pageParams(r)
	loans, pagination, err := h.loans.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, &loanListResponse{Loans: loans, Pagination: pagination}, "")
}
