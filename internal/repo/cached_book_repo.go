package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/cache"
	"github.com/ViniLF/library-api/internal/domain"
)

const bookKeyPrefix = "book:"

// invalidateBook drops a book's cached detail entry. Failures are logged and
// swallowed; the entry ages out by TTL anyway.
func invalidateBook(ctx context.Context, c cache.Cache, logger *zap.Logger, bookID string) {
	if err := c.Del(ctx, bookKeyPrefix+bookID); err != nil {
		logger.Warn("cache invalidation failed", zap.String("book_id", bookID), zap.Error(err))
	}
}

// cachedBookRepo decorates a BookRepo with read-through caching of detail
// reads. Writes invalidate the affected key; list queries always hit the
// database because their filter space does not cache well.
type cachedBookRepo struct {
	inner  BookRepo
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedBookRepo wraps inner with a cache for GetByID.
func NewCachedBookRepo(inner BookRepo, c cache.Cache, ttl time.Duration, logger *zap.Logger) BookRepo {
	return &cachedBookRepo{inner: inner, cache: c, ttl: ttl, logger: logger}
}

func (r *cachedBookRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	key := bookKeyPrefix + id

	if raw, err := r.cache.Get(ctx, key); err == nil {
		var book domain.Book
		if err := json.Unmarshal(raw, &book); err == nil {
			return &book, nil
		}
		// Corrupt entry: drop it and fall through to the database.
		_ = r.cache.Del(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	book, err := r.inner.GetByID(ctx, id)
	if err != nil || book == nil {
		return book, err
	}

	if raw, err := json.Marshal(book); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return book, nil
}

func (r *cachedBookRepo) Create(ctx context.Context, book *domain.Book, authorIDs []string) error {
	return r.inner.Create(ctx, book, authorIDs)
}

func (r *cachedBookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return r.inner.GetByISBN(ctx, isbn)
}

func (r *cachedBookRepo) List(ctx context.Context, filters domain.BookFilters) ([]*domain.Book, int64, error) {
	return r.inner.List(ctx, filters)
}

func (r *cachedBookRepo) Update(ctx context.Context, book *domain.Book, authorIDs []string) error {
	if err := r.inner.Update(ctx, book, authorIDs); err != nil {
		return err
	}
	invalidateBook(ctx, r.cache, r.logger, book.ID)
	return nil
}

func (r *cachedBookRepo) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	invalidateBook(ctx, r.cache, r.logger, id)
	return nil
}
