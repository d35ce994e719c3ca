package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// AuthorHandler serves /authors endpoints.
type AuthorHandler struct {
	authors *service.AuthorService
	rs      *resp.Responder
}

// NewAuthorHandler creates an AuthorHandler.
func NewAuthorHandler(authors *service.AuthorService, rs *resp.Responder) *AuthorHandler {
	return &AuthorHandler{authors: authors, rs: rs}
}

type authorListResponse struct {
	Authors    []*domain.Author   `json:"authors"`
	Pagination *domain.Pagination `json:"pagination"`
}

// List handles GET /authors.
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	authors, pagination, err := h.authors.List(r.Context(), page, limit, r.URL.Query().Get("search"))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, &authorListResponse{Authors: authors, Pagination: pagination}, "")
}

// Get handles GET /authors/{id}.
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	author, err := h.authors.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, author, "")
}

// Create handles POST /authors.
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAuthorRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	author, err := h.authors.Create(r.Context(), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.Created(w, author, "author created")
}

// Update handles PUT /authors/{id}.
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAuthorRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	author, err := h.authors.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, author, "author updated")
}

// Delete handles DELETE /authors/{id}.
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.authors.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, nil, "author deleted")
}
