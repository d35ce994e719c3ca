package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ViniLF/library-api/internal/domain"
)

// ReservationRepo persists reservation queue entries.
type ReservationRepo interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Cancel(ctx context.Context, id string) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Reservation, int64, error)
	ActiveByUserAndBook(ctx context.Context, userID, bookID string) (*domain.Reservation, error)
	CountActiveByBook(ctx context.Context, bookID string) (int64, error)
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo creates a GORM-backed ReservationRepo.
func NewReservationRepo(db *gorm.DB) ReservationRepo {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Book").
		First(reservation, "id = ?", reservation.ID).Error
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.WithContext(ctx).Preload("Book").First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Cancel flips an active reservation to CANCELLED. Cancelling a reservation
// in any other state is a no-op returning the current row.
func (r *reservationRepo) Cancel(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation *domain.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res domain.Reservation
		if err := tx.First(&res, "id = ?", id).Error; err != nil {
			return err
		}
		if res.Status == domain.ReservationStatusActive {
			res.Status = domain.ReservationStatusCancelled
			if err := tx.Save(&res).Error; err != nil {
				return err
			}
		}
		reservation = &res
		return tx.Preload("Book").First(reservation, "id = ?", reservation.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *reservationRepo) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Reservation, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Reservation{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []*domain.Reservation
	err := q.Preload("Book").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

func (r *reservationRepo) ActiveByUserAndBook(ctx context.Context, userID, bookID string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.WithContext(ctx).
		First(&reservation, "user_id = ? AND book_id = ? AND status = ?",
			userID, bookID, domain.ReservationStatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) CountActiveByBook(ctx context.Context, bookID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("book_id = ? AND status = ?", bookID, domain.ReservationStatusActive).
		Count(&count).Error
	return count, err
}
