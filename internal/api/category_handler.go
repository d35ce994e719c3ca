package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// CategoryHandler serves /categories endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
	rs         *resp.Responder
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService, rs *resp.Responder) *CategoryHandler {
	return &CategoryHandler{categories: categories, rs: rs}
}

type categoryListResponse struct {
	Categories []*domain.Category `json:"categories"`
	Pagination *domain.Pagination `json:"pagination"`
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	categories, pagination, err := h.categories.List(r.Context(), page, limit)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, &categoryListResponse{Categories: categories, Pagination: pagination}, "")
}

// Get handles GET /categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, category, "")
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCategoryRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	category, err := h.categories.Create(r.Context(), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.Created(w, category, "category created")
}

// Update handles PUT /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateCategoryRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	category, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, category, "category updated")
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, nil, "category deleted")
}
