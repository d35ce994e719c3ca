package service

import (
	"context"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// ReservationService implements the reservation queue.
type ReservationService struct {
	reservations repo.ReservationRepo
	books        repo.BookRepo
}

// NewReservationService creates a ReservationService.
func NewReservationService(reservations repo.ReservationRepo, books repo.BookRepo) *ReservationService {
	return &ReservationService{reservations: reservations, books: books}
}

// Reserve queues the caller for a book. Reservations only make sense when no
// copy is available; otherwise the caller should just borrow.
func (s *ReservationService) Reserve(ctx context.Context, userID string, req *domain.ReserveRequest) (*domain.Reservation, error) {
	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperr.NotFound("book not found")
	}
	if book.AvailableCopies > 0 {
		return nil, apperr.Conflict("copies are available, borrow the book instead")
	}

	existing, err := s.reservations.ActiveByUserAndBook(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("you already have an active reservation for this book")
	}

	reservation := &domain.Reservation{
		UserID: userID,
		BookID: req.BookID,
		Status: domain.ReservationStatusActive,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

// Cancel withdraws a reservation. Only the owner or staff may cancel, and
// only active reservations can be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, caller *domain.User, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, apperr.NotFound("reservation not found")
	}
	if reservation.UserID != caller.ID && !caller.IsStaff() {
		return nil, apperr.Authorization("you can only cancel your own reservations")
	}
	if reservation.Status != domain.ReservationStatusActive {
		return nil, apperr.Conflict("reservation is not active")
	}

	return s.reservations.Cancel(ctx, reservationID)
}

// ListByUser returns the user's reservations.
func (s *ReservationService) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Reservation, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	reservations, total, err := s.reservations.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return reservations, domain.NewPagination(page, limit, total), nil
}
