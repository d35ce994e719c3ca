package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
)

type bookFixture struct {
	svc        *BookService
	books      *mockBookRepo
	authors    *mockAuthorRepo
	categories *mockCategoryRepo
	loans      *mockLoanRepo

	category *domain.Category
	author   *domain.Author
}

func newBookFixture(t *testing.T) *bookFixture {
	t.Helper()
	books := newMockBookRepo()
	authors := newMockAuthorRepo()
	categories := newMockCategoryRepo()
	reservations := newMockReservationRepo()
	loans := newMockLoanRepo(books, reservations)

	category := &domain.Category{Name: "Fiction"}
	if err := categories.Create(context.Background(), category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	author := &domain.Author{Name: "Ursula K. Le Guin"}
	if err := authors.Create(context.Background(), author); err != nil {
		t.Fatalf("create author: %v", err)
	}

	return &bookFixture{
		svc:        NewBookService(books, authors, categories, loans, reservations),
		books:      books,
		authors:    authors,
		categories: categories,
		loans:      loans,
		category:   category,
		author:     author,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateBookDefaults(t *testing.T) {
	f := newBookFixture(t)

	book, err := f.svc.Create(context.Background(), &domain.CreateBookRequest{
		Title:      "The Dispossessed",
		CategoryID: f.category.ID,
		Authors:    []string{f.author.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if book.TotalCopies != 1 || book.AvailableCopies != 1 {
		t.Fatalf("copies = %d/%d, want 1/1", book.AvailableCopies, book.TotalCopies)
	}
	if book.Language != "en" {
		t.Fatalf("language = %q, want en", book.Language)
	}
	if book.Status != domain.BookStatusAvailable {
		t.Fatalf("status = %q, want AVAILABLE", book.Status)
	}
}

func TestCreateBookUnknownCategory(t *testing.T) {
	f := newBookFixture(t)

	_, err := f.svc.Create(context.Background(), &domain.CreateBookRequest{
		Title:      "Nowhere",
		CategoryID: "missing",
		Authors:    []string{f.author.ID},
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestCreateBookUnknownAuthor(t *testing.T) {
	f := newBookFixture(t)

	_, err := f.svc.Create(context.Background(), &domain.CreateBookRequest{
		Title:      "Nowhere",
		CategoryID: f.category.ID,
		Authors:    []string{"missing"},
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()

	req := &domain.CreateBookRequest{
		Title:      "The Dispossessed",
		ISBN:       strPtr("9780060512750"),
		CategoryID: f.category.ID,
		Authors:    []string{f.author.ID},
	}
	if _, err := f.svc.Create(ctx, req); err != nil {
		t.Fatalf("first create: %v", err)
	}

	req.Title = "Another"
	_, err := f.svc.Create(ctx, req)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusConflict {
		t.Fatalf("duplicate ISBN err = %v, want 409", err)
	}
}

func TestUpdateBookCopyBounds(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()

	book, err := f.svc.Create(ctx, &domain.CreateBookRequest{
		Title:       "The Dispossessed",
		TotalCopies: 3,
		CategoryID:  f.category.ID,
		Authors:     []string{f.author.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	five := 5
	_, err = f.svc.Update(ctx, book.ID, &domain.UpdateBookRequest{AvailableCopies: &five})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Type != apperr.TypeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestDeleteBookWithActiveLoans(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()

	book, err := f.svc.Create(ctx, &domain.CreateBookRequest{
		Title:      "The Dispossessed",
		CategoryID: f.category.ID,
		Authors:    []string{f.author.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	loanSvc := NewLoanService(f.loans, f.books, 14)
	if _, err := loanSvc.Borrow(ctx, "user-1", &domain.BorrowRequest{BookID: book.ID}); err != nil {
		t.Fatalf("borrow: %v", err)
	}

	err = f.svc.Delete(ctx, book.ID)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest || ae.Type != apperr.TypeConstraint {
		t.Fatalf("delete err = %v, want 400 ConstraintError", err)
	}

	if _, err := loanSvc.Return(ctx, &domain.User{ID: "user-1"}, firstLoanID(f.loans)); err != nil {
		t.Fatalf("return: %v", err)
	}
	if err := f.svc.Delete(ctx, book.ID); err != nil {
		t.Fatalf("delete after return: %v", err)
	}
}

func firstLoanID(m *mockLoanRepo) string {
	for id := range m.loans {
		return id
	}
	return ""
}

func TestListBooksPagination(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C", "D", "E"} {
		if _, err := f.svc.Create(ctx, &domain.CreateBookRequest{
			Title:      title,
			CategoryID: f.category.ID,
			Authors:    []string{f.author.ID},
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	books, p, err := f.svc.List(ctx, domain.BookFilters{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len(books) = %d, want 2", len(books))
	}
	if p.Total != 5 || p.TotalPages != 3 {
		t.Fatalf("pagination = %+v, want total 5 over 3 pages", p)
	}
	if !p.HasNext || !p.HasPrev {
		t.Fatalf("page 2 of 3 should have both neighbours, got %+v", p)
	}

	_, last, err := f.svc.List(ctx, domain.BookFilters{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if last.HasNext || !last.HasPrev {
		t.Fatalf("last page flags wrong: %+v", last)
	}
}

func TestListBooksClampsLimit(t *testing.T) {
	f := newBookFixture(t)

	_, p, err := f.svc.List(context.Background(), domain.BookFilters{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.Page != 1 || p.Limit != 100 {
		t.Fatalf("page/limit = %d/%d, want 1/100", p.Page, p.Limit)
	}
}
