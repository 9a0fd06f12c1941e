package admin

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/services"
	"go.uber.org/zap"
)

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := helpers.DecodeJSON(r, h.validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	node, err := h.categories.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("category created", zap.Uint("category_id", node.ID), zap.Uint("actor_id", helpers.CurrentUser(r.Context()).ID))
	_ = h.render.JSON(w, http.StatusCreated, node)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in services.CategoryInput
	if err := helpers.DecodeJSON(r, h.validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	node, err := h.categories.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, node)
}

// DeleteCategory removes the category together with its whole subtree and
// every listing filed under it.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("category deleted", zap.Uint("category_id", id), zap.Uint("actor_id", helpers.CurrentUser(r.Context()).ID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateFilter(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in services.FilterInput
	if err := helpers.DecodeJSON(r, h.validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	filter, err := h.categories.CreateFilter(r.Context(), categoryID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, filter)
}

func (h *AdminHandler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "filter")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in services.FilterInput
	if err := helpers.DecodeJSON(r, h.validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	filter, err := h.categories.UpdateFilter(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, filter)
}

func (h *AdminHandler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "filter")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.categories.DeleteFilter(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
