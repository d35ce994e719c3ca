package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus enumerates reservation lifecycle states.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
)

// Reservation is a queue entry for a book with no available copies. A user
// holds at most one ACTIVE reservation per book; borrowing the book fulfils
// the borrower's own reservation.
type Reservation struct {
	ID        string            `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string            `json:"userId" gorm:"type:uuid;not null;index"`
	User      *User             `json:"user,omitempty"`
	BookID    string            `json:"bookId" gorm:"type:uuid;not null;index"`
	Book      *Book             `json:"book,omitempty"`
	Status    ReservationStatus `json:"status" gorm:"size:16;not null;default:ACTIVE"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReserveRequest is the payload for POST /reservations.
type ReserveRequest struct {
	BookID string `json:"bookId" validate:"required"`
}
