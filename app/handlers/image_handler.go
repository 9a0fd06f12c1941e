package handlers

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/services"
)

type ImageHandler struct {
	Base
	images   repositories.ImageRepositoryImpl
	listings *services.ListingService
}

func NewImageHandler(base Base, images repositories.ImageRepositoryImpl, listings *services.ListingService) *ImageHandler {
	return &ImageHandler{Base: base, images: images, listings: listings}
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	image, err := h.images.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if image == nil {
		h.fail(w, r, apperrors.NotFound("image"))
		return
	}
	h.json(w, http.StatusOK, image)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	image, err := h.images.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if image == nil {
		h.fail(w, r, apperrors.NotFound("image"))
		return
	}
	if _, err := h.listings.Owned(r.Context(), mustUser(r), image.ListingID); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.images.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
