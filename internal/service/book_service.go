package service

import (
	"context"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// BookService implements catalog operations and the referential checks around
// them.
type BookService struct {
	books        repo.BookRepo
	authors      repo.AuthorRepo
	categories   repo.CategoryRepo
	loans        repo.LoanRepo
	reservations repo.ReservationRepo
}

// NewBookService creates a BookService.
func NewBookService(books repo.BookRepo, authors repo.AuthorRepo, categories repo.CategoryRepo, loans repo.LoanRepo, reservations repo.ReservationRepo) *BookService {
	return &BookService{books: books, authors: authors, categories: categories, loans: loans, reservations: reservations}
}

// Create validates referenced entities before inserting: the category and
// every author must exist, and the ISBN must be unused.
func (s *BookService) Create(ctx context.Context, req *domain.CreateBookRequest) (*domain.Book, error) {
	if req.ISBN != nil {
		existing, err := s.books.GetByISBN(ctx, *req.ISBN)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("a book with this ISBN already exists")
		}
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}

	for _, authorID := range req.Authors {
		author, err := s.authors.GetByID(ctx, authorID)
		if err != nil {
			return nil, err
		}
		if author == nil {
			return nil, apperr.NotFound("author not found: " + authorID)
		}
	}

	totalCopies := req.TotalCopies
	if totalCopies == 0 {
		totalCopies = 1
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	book := &domain.Book{
		Title:           req.Title,
		ISBN:            req.ISBN,
		Description:     req.Description,
		PublishedYear:   req.PublishedYear,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		Language:        language,
		Pages:           req.Pages,
		Status:          domain.BookStatusAvailable,
		CategoryID:      req.CategoryID,
	}
	if err := s.books.Create(ctx, book, req.Authors); err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID returns the book with its active loans and reservations.
func (s *BookService) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperr.NotFound("book not found")
	}
	return book, nil
}

// List returns a filtered catalog page plus its pagination envelope.
func (s *BookService) List(ctx context.Context, filters domain.BookFilters) ([]*domain.Book, *domain.Pagination, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 10
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	books, total, err := s.books.List(ctx, filters)
	if err != nil {
		return nil, nil, err
	}
	return books, domain.NewPagination(filters.Page, filters.Limit, total), nil
}

// Update applies the non-nil fields of req. An updated ISBN must not collide
// with another book, and a replacement author set must reference existing
// authors.
func (s *BookService) Update(ctx context.Context, id string, req *domain.UpdateBookRequest) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperr.NotFound("book not found")
	}

	if req.ISBN != nil && (book.ISBN == nil || *req.ISBN != *book.ISBN) {
		existing, err := s.books.GetByISBN(ctx, *req.ISBN)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("a book with this ISBN already exists")
		}
		book.ISBN = req.ISBN
	}
	if req.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.NotFound("category not found")
		}
		book.CategoryID = *req.CategoryID
	}
	if req.Authors != nil {
		for _, authorID := range req.Authors {
			author, err := s.authors.GetByID(ctx, authorID)
			if err != nil {
				return nil, err
			}
			if author == nil {
				return nil, apperr.NotFound("author not found: " + authorID)
			}
		}
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.PublishedYear != nil {
		book.PublishedYear = req.PublishedYear
	}
	if req.TotalCopies != nil {
		book.TotalCopies = *req.TotalCopies
	}
	if req.AvailableCopies != nil {
		book.AvailableCopies = *req.AvailableCopies
	}
	if book.AvailableCopies > book.TotalCopies {
		return nil, apperr.Validation("availableCopies cannot exceed totalCopies")
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.Pages != nil {
		book.Pages = req.Pages
	}
	if req.Status != nil {
		book.Status = *req.Status
	}

	// Detail fields must not be persisted.
	book.ActiveLoans = nil
	book.ActiveReservations = nil
	book.Category = nil
	book.Authors = nil

	if err := s.books.Update(ctx, book, req.Authors); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book unless copies are still out on loan or readers are
// queued for it.
func (s *BookService) Delete(ctx context.Context, id string) error {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return apperr.NotFound("book not found")
	}

	activeLoans, err := s.loans.CountActiveByBook(ctx, id)
	if err != nil {
		return err
	}
	if activeLoans > 0 {
		return apperr.Constraint("book has active loans and cannot be deleted")
	}

	activeReservations, err := s.reservations.CountActiveByBook(ctx, id)
	if err != nil {
		return err
	}
	if activeReservations > 0 {
		return apperr.Constraint("book has active reservations and cannot be deleted")
	}

	return s.books.Delete(ctx, id)
}
