package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// ReservationHandler serves /reservations endpoints. All routes run behind
// Authenticate.
type ReservationHandler struct {
	reservations *service.ReservationService
	rs           *resp.Responder
}

// NewReservationHandler creates a ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService, rs *resp.Responder) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, rs: rs}
}

// Reserve handles POST /reservations.
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req domain.ReserveRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	user := middleware.UserFrom(r.Context())
	reservation, err := h.reservations.Reserve(r.Context(), user.ID, &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.Created(w, reservation, "book reserved")
}

// Cancel handles POST /reservations/{id}/cancel.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	reservation, err := h.reservations.Cancel(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, reservation, "reservation cancelled")
}

type reservationListResponse struct {
	Reservations []*domain.Reservation `json:"reservations"`
	Pagination   *domain.Pagination    `json:"pagination"`
}

// ListMine handles GET /reservations.
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	h.listFor(w, r, user.ID)
}

// ListByUser handles GET /users/{userId}/reservations behind the ownership
// check.
func (h *ReservationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, chi.URLParam(r, "userId"))
}

func (h *ReservationHandler) listFor(w http.ResponseWriter, r *http.Request, userID string) {
	page, limit := pageParams(r)
	reservations, pagination, err := h.reservations.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, &reservationListResponse{Reservations: reservations, Pagination: pagination}, "")
}
