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

type FavoriteHandler struct {
	Base
	favorites repositories.FavoriteRepositoryImpl
	listings  *services.ListingService
}

func NewFavoriteHandler(base Base, favorites repositories.FavoriteRepositoryImpl, listings *services.ListingService) *FavoriteHandler {
	return &FavoriteHandler{Base: base, favorites: favorites, listings: listings}
}

type favoriteResponse struct {
	ID        uint            `json:"id"`
	ListingID uint            `json:"listing_id"`
	Listing   listingResponse `json:"listing"`
	CreatedAt string          `json:"created_at"`
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favorites.ListByUser(r.Context(), mustUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]favoriteResponse, 0, len(favorites))
	for i := range favorites {
		f := &favorites[i]
		out = append(out, favoriteResponse{
			ID:        f.ID,
			ListingID: f.ListingID,
			Listing:   toListingResponse(&f.Listing),
			CreatedAt: f.CreatedAt.Format(timeLayout),
		})
	}
	h.json(w, http.StatusOK, out)
}

func (h *FavoriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID uint `json:"listing_id" validate:"required"`
	}
	if err := helpers.DecodeJSON(r, h.Validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.listings.Get(r.Context(), req.ListingID); err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			err = apperrors.ValidationField("listing_id", "listing does not exist")
		}
		h.fail(w, r, err)
		return
	}

	favorite := &models.Favorite{UserID: mustUser(r).ID, ListingID: req.ListingID}
	if err := h.favorites.Create(r.Context(), favorite); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			h.fail(w, r, apperrors.Conflict("listing is already in favorites"))
			return
		}
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, favorite)
}

func (h *FavoriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "favorite")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	favorite, err := h.favorites.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// Other users' favorites are invisible.
	if favorite == nil || favorite.UserID != mustUser(r).ID {
		h.fail(w, r, apperrors.NotFound("favorite"))
		return
	}
	if err := h.favorites.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
