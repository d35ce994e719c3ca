package service

import (
	"context"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// AuthorService implements author CRUD.
type AuthorService struct {
	authors repo.AuthorRepo
}

// NewAuthorService creates an AuthorService.
func NewAuthorService(authors repo.AuthorRepo) *AuthorService {
	return &AuthorService{authors: authors}
}

func (s *AuthorService) Create(ctx context.Context, req *domain.CreateAuthorRequest) (*domain.Author, error) {
	author := &domain.Author{
		Name:        req.Name,
		Biography:   req.Biography,
		BirthDate:   req.BirthDate,
		Nationality: req.Nationality,
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *AuthorService) GetByID(ctx context.Context, id string) (*domain.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.NotFound("author not found")
	}
	return author, nil
}

func (s *AuthorService) List(ctx context.Context, page, limit int, search string) ([]*domain.Author, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	authors, total, err := s.authors.List(ctx, page, limit, search)
	if err != nil {
		return nil, nil, err
	}
	return authors, domain.NewPagination(page, limit, total), nil
}

func (s *AuthorService) Update(ctx context.Context, id string, req *domain.UpdateAuthorRequest) (*domain.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.NotFound("author not found")
	}

	if req.Name != nil {
		author.Name = *req.Name
	}
	if req.Biography != nil {
		author.Biography = *req.Biography
	}
	if req.BirthDate != nil {
		author.BirthDate = req.BirthDate
	}
	if req.Nationality != nil {
		author.Nationality = *req.Nationality
	}

	if err := s.authors.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Delete refuses to remove an author who still has books in the catalog.
func (s *AuthorService) Delete(ctx context.Context, id string) error {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if author == nil {
		return apperr.NotFound("author not found")
	}

	count, err := s.authors.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Constraint("author has books in the catalog and cannot be deleted")
	}

	return s.authors.Delete(ctx, id)
}
