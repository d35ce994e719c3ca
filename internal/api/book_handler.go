package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// BookHandler serves /books endpoints.
type BookHandler struct {
	books *service.BookService
	rs    *resp.Responder
}

// NewBookHandler creates a BookHandler.
func NewBookHandler(books *service.BookService, rs *resp.Responder) *BookHandler {
	return &BookHandler{books: books, rs: rs}
}

func bookFilters(r *http.Request) domain.BookFilters {
	q := r.URL.Query()
	page, limit := pageParams(r)
	return domain.BookFilters{
		Page:       page,
		Limit:      limit,
		Search:     q.Get("search"),
		CategoryID: q.Get("categoryId"),
		AuthorID:   q.Get("authorId"),
		Status:     q.Get("status"),
		Language:   q.Get("language"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}
}

type bookListResponse struct {
	Books      []*domain.Book     `json:"books"`
	Pagination *domain.Pagination `json:"pagination"`
}

// List handles GET /books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, pagination, err := h.books.List(r.Context(), bookFilters(r))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, &bookListResponse{Books: books, Pagination: pagination}, "")
}

// Search handles GET /books/search. Same query surface as List behind the
// search rate class.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.List(w, r)
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, book, "")
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	book, err := h.books.Create(r.Context(), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.Created(w, book, "book created")
}

// Update handles PUT /books/{id}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBookRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	book, err := h.books.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, book, "book updated")
}

// Delete handles DELETE /books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, nil, "book deleted")
}
