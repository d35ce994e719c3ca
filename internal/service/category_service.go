package service

import (
	"context"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// CategoryService implements category CRUD.
type CategoryService struct {
	categories repo.CategoryRepo
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories repo.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create rejects duplicate names up front; the unique index backs this up
// under concurrency.
func (s *CategoryService) Create(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	existing, err := s.categories.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a category with this name already exists")
	}

	category := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, page, limit int) ([]*domain.Category, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	categories, total, err := s.categories.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return categories, domain.NewPagination(page, limit, total), nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *domain.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}

	if req.Name != nil && *req.Name != category.Name {
		existing, err := s.categories.GetByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("a category with this name already exists")
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that still has books.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("category not found")
	}

	count, err := s.categories.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Constraint("category has books and cannot be deleted")
	}

	return s.categories.Delete(ctx, id)
}
