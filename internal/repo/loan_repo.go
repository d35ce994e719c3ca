package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ViniLF/library-api/internal/domain"
)

// Sentinel failures for loan state transitions. The service layer maps these
// to typed API errors.
var (
	ErrNoAvailableCopies = errors.New("no available copies")
	ErrLoanNotActive     = errors.New("loan is not active")
)

// LoanRepo persists loans. Borrow and Return run inside transactions that
// lock the book row, so copy counts stay consistent under concurrent borrows.
type LoanRepo interface {
	Borrow(ctx context.Context, userID, bookID string, dueDate time.Time) (*domain.Loan, error)
	Return(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Loan, int64, error)
	CountActiveByBook(ctx context.Context, bookID string) (int64, error)
}

type loanRepo struct {
	db *gorm.DB
}

// NewLoanRepo creates a GORM-backed LoanRepo.
func NewLoanRepo(db *gorm.DB) LoanRepo {
	return &loanRepo{db: db}
}

// Borrow creates the loan, decrements the book's available copies and fulfils
// the borrower's own active reservation if one exists, all in one transaction.
func (r *loanRepo) Borrow(ctx context.Context, userID, bookID string, dueDate time.Time) (*domain.Loan, error) {
	var loan *domain.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book domain.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&book, "id = ?", bookID).Error; err != nil {
			return err
		}
		if book.AvailableCopies <= 0 {
			return ErrNoAvailableCopies
		}

		loan = &domain.Loan{
			UserID:   userID,
			BookID:   bookID,
			LoanDate: time.Now().UTC(),
			DueDate:  dueDate,
			Status:   domain.LoanStatusActive,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Book{}).
			Where("id = ?", bookID).
			Update("available_copies", gorm.Expr("available_copies - 1")).Error; err != nil {
			return err
		}

		// A borrower with an active reservation on this book is consuming it.
		if err := tx.Model(&domain.Reservation{}).
			Where("user_id = ? AND book_id = ? AND status = ?",
				userID, bookID, domain.ReservationStatusActive).
			Update("status", domain.ReservationStatusFulfilled).Error; err != nil {
			return err
		}

		return tx.Preload("Book").First(loan, "id = ?", loan.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Return closes an active loan and increments the book's available copies.
func (r *loanRepo) Return(ctx context.Context, loanID string) (*domain.Loan, error) {
	var loan *domain.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l domain.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.Status != domain.LoanStatusActive {
			return ErrLoanNotActive
		}

		now := time.Now().UTC()
		l.ReturnDate = &now
		l.Status = domain.LoanStatusReturned
		if err := tx.Save(&l).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Book{}).
			Where("id = ? AND available_copies < total_copies", l.BookID).
			Update("available_copies", gorm.Expr("available_copies + 1")).Error; err != nil {
			return err
		}

		loan = &l
		return tx.Preload("Book").First(loan, "id = ?", loan.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *loanRepo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	var loan domain.Loan
	err := r.db.WithContext(ctx).Preload("Book").First(&loan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Loan, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Loan{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loans []*domain.Loan
	err := q.Preload("Book").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *loanRepo) CountActiveByBook(ctx context.Context, bookID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Loan{}).
		Where("book_id = ? AND status = ?", bookID, domain.LoanStatusActive).
		Count(&count).Error
	return count, err
}
