package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/cache"
	"github.com/ViniLF/library-api/internal/domain"
)

// cachedLoanRepo decorates a LoanRepo so every write that changes a book's
// copy count also drops that book's cached detail entry. Without this a
// cached GetByID keeps serving the pre-borrow availableCopies until the TTL
// expires.
type cachedLoanRepo struct {
	inner  LoanRepo
	cache  cache.Cache
	logger *zap.Logger
}

// NewCachedLoanRepo wraps inner with book-detail invalidation on Borrow and
// Return.
func NewCachedLoanRepo(inner LoanRepo, c cache.Cache, logger *zap.Logger) LoanRepo {
	return &cachedLoanRepo{inner: inner, cache: c, logger: logger}
}

func (r *cachedLoanRepo) Borrow(ctx context.Context, userID, bookID string, dueDate time.Time) (*domain.Loan, error) {
	loan, err := r.inner.Borrow(ctx, userID, bookID, dueDate)
	if err != nil {
		return nil, err
	}
	invalidateBook(ctx, r.cache, r.logger, bookID)
	return loan, nil
}

func (r *cachedLoanRepo) Return(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := r.inner.Return(ctx, loanID)
	if err != nil {
		return nil, err
	}
	invalidateBook(ctx, r.cache, r.logger, loan.BookID)
	return loan, nil
}

func (r *cachedLoanRepo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *cachedLoanRepo) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Loan, int64, error) {
	return r.inner.ListByUser(ctx, userID, page, limit)
}

func (r *cachedLoanRepo) CountActiveByBook(ctx context.Context, bookID string) (int64, error) {
	return r.inner.CountActiveByBook(ctx, bookID)
}
