package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author is a book author. BooksCount is filled by the repository from a
// join-table count and is not a column.
type Author struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string     `json:"name" gorm:"size:100;not null;index"`
	Biography   string     `json:"biography,omitempty" gorm:"size:2000"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	Nationality string     `json:"nationality,omitempty" gorm:"size:60"`
	Books       []*Book    `json:"books,omitempty" gorm:"many2many:book_authors"`
	BooksCount  int64      `json:"booksCount" gorm:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// CreateAuthorRequest is the payload for POST /authors.
type CreateAuthorRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=100"`
	Biography   string     `json:"biography" validate:"omitempty,max=2000"`
	BirthDate   *time.Time `json:"birthDate"`
	Nationality string     `json:"nationality" validate:"omitempty,max=60"`
}

// UpdateAuthorRequest is the payload for PUT /authors/{id}.
type UpdateAuthorRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Biography   *string    `json:"biography" validate:"omitempty,max=2000"`
	BirthDate   *time.Time `json:"birthDate"`
	Nationality *string    `json:"nationality" validate:"omitempty,max=60"`
}
