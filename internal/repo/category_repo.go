package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ViniLF/library-api/internal/domain"
)

// CategoryRepo persists categories.
type CategoryRepo interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, page, limit int) ([]*domain.Category, int64, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	CountBooks(ctx context.Context, categoryID string) (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo creates a GORM-backed CategoryRepo.
func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	count, err := r.CountBooks(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	category.BooksCount = count
	return &category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context, page, limit int) ([]*domain.Category, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []*domain.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}

	for _, c := range categories {
		count, err := r.CountBooks(ctx, c.ID)
		if err != nil {
			return nil, 0, err
		}
		c.BooksCount = count
	}
	return categories, total, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id).Error
}

func (r *categoryRepo) CountBooks(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Book{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
