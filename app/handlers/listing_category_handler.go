package handlers

import (
	"errors"
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/services"
)

// ListingCategoryHandler manages the legacy secondary category links of a
// listing. Search treats them like the primary category.
type ListingCategoryHandler struct {
	Base
	links      repositories.ListingCategoryRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	listings   *services.ListingService
}

func NewListingCategoryHandler(
	base Base,
	links repositories.ListingCategoryRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	listings *services.ListingService,
) *ListingCategoryHandler {
	return &ListingCategoryHandler{Base: base, links: links, categories: categories, listings: listings}
}

type listingCategoryRequest struct {
	ListingID  uint `json:"listing_id" validate:"required"`
	CategoryID uint `json:"category_id" validate:"required"`
}

func (h *ListingCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var listingID *uint
	if id, ok := helpers.ParseID(r.URL.Query().Get("listing")); ok {
		listingID = &id
	}
	links, err := h.links.List(r.Context(), listingID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, links)
}

func (h *ListingCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listingCategoryRequest
	if err := helpers.DecodeJSON(r, h.Validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.listings.Owned(r.Context(), mustUser(r), req.ListingID); err != nil {
		h.fail(w, r, err)
		return
	}
	category, err := h.categories.GetByID(r.Context(), req.CategoryID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if category == nil {
		h.fail(w, r, apperrors.ValidationField("category_id", "category does not exist"))
		return
	}

	link := &models.ListingCategory{ListingID: req.ListingID, CategoryID: req.CategoryID}
	if err := h.links.Create(r.Context(), link); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			h.fail(w, r, apperrors.Conflict("listing is already linked to this category"))
			return
		}
		h.fail(w, r, err)
		return
	}
	link.Category = *category
	h.json(w, http.StatusCreated, link)
}

func (h *ListingCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "listing category")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	link, err := h.links.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if link == nil {
		h.fail(w, r, apperrors.NotFound("listing category"))
		return
	}
	if _, err := h.listings.Owned(r.Context(), mustUser(r), link.ListingID); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.links.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
