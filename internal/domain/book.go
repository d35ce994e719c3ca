package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookStatus enumerates the catalog states of a book.
type BookStatus string

const (
	BookStatusAvailable   BookStatus = "AVAILABLE"
	BookStatusUnavailable BookStatus = "UNAVAILABLE"
	BookStatusMaintenance BookStatus = "MAINTENANCE"
)

// Book is a catalog entry. Copy accounting lives on the book row itself:
// AvailableCopies never exceeds TotalCopies and is adjusted inside the same
// transaction that creates or closes a loan.
type Book struct {
	ID              string     `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string     `json:"title" gorm:"size:200;not null;index"`
	ISBN            *string    `json:"isbn,omitempty" gorm:"size:13;uniqueIndex"`
	Description     string     `json:"description,omitempty" gorm:"size:1000"`
	PublishedYear   *int       `json:"publishedYear,omitempty"`
	TotalCopies     int        `json:"totalCopies" gorm:"not null;default:1"`
	AvailableCopies int        `json:"availableCopies" gorm:"not null;default:1"`
	Language        string     `json:"language" gorm:"size:10;not null;default:en"`
	Pages           *int       `json:"pages,omitempty"`
	Status          BookStatus `json:"status" gorm:"size:16;not null;default:AVAILABLE"`
	CategoryID      string     `json:"categoryId" gorm:"type:uuid;not null;index"`
	Category        *Category  `json:"category,omitempty"`
	Authors         []*Author  `json:"authors,omitempty" gorm:"many2many:book_authors"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Populated only on detail reads.
	ActiveLoans        []*Loan        `json:"activeLoans,omitempty" gorm:"-"`
	ActiveReservations []*Reservation `json:"activeReservations,omitempty" gorm:"-"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// CreateBookRequest is the payload for POST /books.
type CreateBookRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	ISBN          *string  `json:"isbn" validate:"omitempty,isbndigits"`
	Description   string   `json:"description" validate:"omitempty,max=1000"`
	PublishedYear *int     `json:"publishedYear" validate:"omitempty,gte=1000"`
	TotalCopies   int      `json:"totalCopies" validate:"omitempty,gte=1"`
	Language      string   `json:"language" validate:"omitempty,min=2,max=10"`
	Pages         *int     `json:"pages" validate:"omitempty,gte=1"`
	CategoryID    string   `json:"categoryId" validate:"required"`
	Authors       []string `json:"authors" validate:"required,min=1,dive,required"`
}

// UpdateBookRequest is the payload for PUT /books/{id}. Nil fields are left
// unchanged; a non-nil Authors slice replaces the full author set.
type UpdateBookRequest struct {
	Title           *string     `json:"title" validate:"omitempty,min=1,max=200"`
	ISBN            *string     `json:"isbn" validate:"omitempty,isbndigits"`
	Description     *string     `json:"description" validate:"omitempty,max=1000"`
	PublishedYear   *int        `json:"publishedYear" validate:"omitempty,gte=1000"`
	TotalCopies     *int        `json:"totalCopies" validate:"omitempty,gte=1"`
	AvailableCopies *int        `json:"availableCopies" validate:"omitempty,gte=0"`
	Language        *string     `json:"language" validate:"omitempty,min=2,max=10"`
	Pages           *int        `json:"pages" validate:"omitempty,gte=1"`
	Status          *BookStatus `json:"status" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE MAINTENANCE"`
	CategoryID      *string     `json:"categoryId" validate:"omitempty"`
	Authors         []string    `json:"authors" validate:"omitempty,min=1,dive,required"`
}

// BookFilters carries list/search parameters parsed from the query string.
type BookFilters struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	AuthorID   string
	Status     string
	Language   string
	SortBy     string
	SortOrder  string
}

// Pagination is the envelope returned alongside every paginated collection.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives the pagination envelope from a total row count.
func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
