package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ViniLF/library-api/internal/domain"
)

// BookRepo persists catalog entries and their author associations.
type BookRepo interface {
	Create(ctx context.Context, book *domain.Book, authorIDs []string) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	List(ctx context.Context, filters domain.BookFilters) ([]*domain.Book, int64, error)
	Update(ctx context.Context, book *domain.Book, authorIDs []string) error
	Delete(ctx context.Context, id string) error
}

type bookRepo struct {
	db *gorm.DB
}

// NewBookRepo creates a GORM-backed BookRepo.
func NewBookRepo(db *gorm.DB) BookRepo {
	return &bookRepo{db: db}
}

// Create inserts the book and its author links in one transaction.
func (r *bookRepo) Create(ctx context.Context, book *domain.Book, authorIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		for _, authorID := range authorIDs {
			if err := tx.Exec(
				"INSERT INTO book_authors (book_id, author_id) VALUES (?, ?)",
				book.ID, authorID,
			).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Category").Preload("Authors").
			First(book, "id = ?", book.ID).Error
	})
}

func (r *bookRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Authors").
		First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("book_id = ? AND status = ?", id, domain.LoanStatusActive).
		Preload("User").
		Find(&book.ActiveLoans).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("book_id = ? AND status = ?", id, domain.ReservationStatusActive).
		Preload("User").
		Find(&book.ActiveReservations).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).First(&book, "isbn = ?", isbn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// sortColumns whitelists user-supplied sort fields.
var sortColumns = map[string]string{
	"title":         "title",
	"createdAt":     "created_at",
	"publishedYear": "published_year",
}

func (r *bookRepo) List(ctx context.Context, f domain.BookFilters) ([]*domain.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Book{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR isbn ILIKE ?", like, like, like)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AuthorID != "" {
		q = q.Where("id IN (SELECT book_id FROM book_authors WHERE author_id = ?)", f.AuthorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := sortColumns[f.SortBy]; ok {
		dir := "ASC"
		if f.SortOrder == "desc" {
			dir = "DESC"
		}
		order = col + " " + dir
	}

	var books []*domain.Book
	err := q.Preload("Category").
		Preload("Authors").
		Order(order).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Update saves the book row; a non-nil authorIDs replaces the full author set
// inside the same transaction.
func (r *bookRepo) Update(ctx context.Context, book *domain.Book, authorIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authors", "Category").Save(book).Error; err != nil {
			return err
		}
		if authorIDs != nil {
			if err := tx.Exec("DELETE FROM book_authors WHERE book_id = ?", book.ID).Error; err != nil {
				return err
			}
			for _, authorID := range authorIDs {
				if err := tx.Exec(
					"INSERT INTO book_authors (book_id, author_id) VALUES (?, ?)",
					book.ID, authorID,
				).Error; err != nil {
					return err
				}
			}
		}
		return tx.Preload("Category").Preload("Authors").
			First(book, "id = ?", book.ID).Error
	})
}

func (r *bookRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_authors WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Book{}, "id = ?", id).Error
	})
}
