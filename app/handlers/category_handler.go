package handlers

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/services"
)

type CategoryHandler struct {
	Base
	categories *services.CategoryService
}

func NewCategoryHandler(base Base, categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Base: base, categories: categories}
}

func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.categories.Tree(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if roots == nil {
		roots = []*services.CategoryNode{}
	}
	h.json(w, http.StatusOK, roots)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	node, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, node)
}

func (h *CategoryHandler) Filters(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filters, err := h.categories.Filters(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, filters)
}

func (h *CategoryHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	options, err := h.categories.FilterOptions(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, options)
}

func (h *CategoryHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ids, err := h.categories.Descendants(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]interface{}{"id": id, "descendants": ids})
}
