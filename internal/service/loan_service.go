package service

import (
	"context"
	"errors"
	"time"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// LoanService implements borrowing and returns.
type LoanService struct {
	loans      repo.LoanRepo
	books      repo.BookRepo
	periodDays int
	now        func() time.Time
}

// NewLoanService creates a LoanService. periodDays is the loan length used to
// compute due dates.
func NewLoanService(loans repo.LoanRepo, books repo.BookRepo, periodDays int) *LoanService {
	return &LoanService{loans: loans, books: books, periodDays: periodDays, now: time.Now}
}

// Borrow creates a loan for the caller. The copy decrement and reservation
// fulfilment happen atomically in the repository.
func (s *LoanService) Borrow(ctx context.Context, userID string, req *domain.BorrowRequest) (*domain.Loan, error) {
	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperr.NotFound("book not found")
	}
	if book.Status != domain.BookStatusAvailable {
		return nil, apperr.Conflict("book is not available for loan")
	}

	dueDate := s.now().UTC().AddDate(0, 0, s.periodDays)
	loan, err := s.loans.Borrow(ctx, userID, req.BookID, dueDate)
	if err != nil {
		if errors.Is(err, repo.ErrNoAvailableCopies) {
			return nil, apperr.Conflict("no copies available, consider reserving the book")
		}
		return nil, err
	}

	loan.Status = loan.EffectiveStatus(s.now())
	return loan, nil
}

// Return closes a loan. Only the borrower or staff may return it.
func (s *LoanService) Return(ctx context.Context, caller *domain.User, loanID string) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, apperr.NotFound("loan not found")
	}
	if loan.UserID != caller.ID && !caller.IsStaff() {
		return nil, apperr.Authorization("you can only return your own loans")
	}

	returned, err := s.loans.Return(ctx, loanID)
	if err != nil {
		if errors.Is(err, repo.ErrLoanNotActive) {
			return nil, apperr.Conflict("loan is not active")
		}
		return nil, err
	}
	return returned, nil
}

// ListByUser returns the user's loans with OVERDUE derived for presentation.
func (s *LoanService) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Loan, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	loans, total, err := s.loans.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	for _, l := range loans {
		l.Status = l.EffectiveStatus(now)
	}
	return loans, domain.NewPagination(page, limit, total), nil
}
