package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanStatus enumerates loan lifecycle states. OVERDUE is derived at read time
// from DueDate; there is no background job flipping rows.
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusReturned LoanStatus = "RETURNED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
)

// Loan records a borrowed copy of a book.
type Loan struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     string     `json:"userId" gorm:"type:uuid;not null;index"`
	User       *User      `json:"user,omitempty"`
	BookID     string     `json:"bookId" gorm:"type:uuid;not null;index"`
	Book       *Book      `json:"book,omitempty"`
	LoanDate   time.Time  `json:"loanDate" gorm:"not null"`
	DueDate    time.Time  `json:"dueDate" gorm:"not null"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status" gorm:"size:16;not null;default:ACTIVE"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// EffectiveStatus returns OVERDUE for active loans past their due date.
func (l *Loan) EffectiveStatus(now time.Time) LoanStatus {
	if l.Status == LoanStatusActive && now.After(l.DueDate) {
		return LoanStatusOverdue
	}
	return l.Status
}

// BorrowRequest is the payload for POST /loans.
type BorrowRequest struct {
	BookID string `json:"bookId" validate:"required"`
}
