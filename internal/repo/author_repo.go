package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ViniLF/library-api/internal/domain"
)

// AuthorRepo persists authors and exposes the join-table count consumers need
// before allowing deletion.
type AuthorRepo interface {
	Create(ctx context.Context, author *domain.Author) error
	GetByID(ctx context.Context, id string) (*domain.Author, error)
	List(ctx context.Context, page, limit int, search string) ([]*domain.Author, int64, error)
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, id string) error
	CountBooks(ctx context.Context, authorID string) (int64, error)
}

type authorRepo struct {
	db *gorm.DB
}

// NewAuthorRepo creates a GORM-backed AuthorRepo.
func NewAuthorRepo(db *gorm.DB) AuthorRepo {
	return &authorRepo{db: db}
}

func (r *authorRepo) Create(ctx context.Context, author *domain.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

func (r *authorRepo) GetByID(ctx context.Context, id string) (*domain.Author, error) {
	var author domain.Author
	err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	count, err := r.CountBooks(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	author.BooksCount = count
	return &author, nil
}

func (r *authorRepo) List(ctx context.Context, page, limit int, search string) ([]*domain.Author, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Author{})
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []*domain.Author
	err := q.Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	for _, a := range authors {
		count, err := r.CountBooks(ctx, a.ID)
		if err != nil {
			return nil, 0, err
		}
		a.BooksCount = count
	}
	return authors, total, nil
}

func (r *authorRepo) Update(ctx context.Context, author *domain.Author) error {
	return r.db.WithContext(ctx).Save(author).Error
}

func (r *authorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Author{}, "id = ?", id).Error
}

func (r *authorRepo) CountBooks(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("book_authors").
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
