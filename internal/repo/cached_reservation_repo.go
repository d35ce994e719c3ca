package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/cache"
	"github.com/ViniLF/library-api/internal/domain"
)

// cachedReservationRepo decorates a ReservationRepo with book-detail
// invalidation. Book detail reads embed the active reservations, so creating
// or cancelling one stales the cached entry.
type cachedReservationRepo struct {
	inner  ReservationRepo
	cache  cache.Cache
	logger *zap.Logger
}

// NewCachedReservationRepo wraps inner with book-detail invalidation on
// Create and Cancel.
func NewCachedReservationRepo(inner ReservationRepo, c cache.Cache, logger *zap.Logger) ReservationRepo {
	return &cachedReservationRepo{inner: inner, cache: c, logger: logger}
}

func (r *cachedReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	if err := r.inner.Create(ctx, reservation); err != nil {
		return err
	}
	invalidateBook(ctx, r.cache, r.logger, reservation.BookID)
	return nil
}

func (r *cachedReservationRepo) Cancel(ctx context.Context, id string) (*domain.Reservation, error) {
	reservation, err := r.inner.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	invalidateBook(ctx, r.cache, r.logger, reservation.BookID)
	return reservation, nil
}

func (r *cachedReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *cachedReservationRepo) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Reservation, int64, error) {
	return r.inner.ListByUser(ctx, userID, page, limit)
}

func (r *cachedReservationRepo) ActiveByUserAndBook(ctx context.Context, userID, bookID string) (*domain.Reservation, error) {
	return r.inner.ActiveByUserAndBook(ctx, userID, bookID)
}

func (r *cachedReservationRepo) CountActiveByBook(ctx context.Context, bookID string) (int64, error) {
	return r.inner.CountActiveByBook(ctx, bookID)
}
