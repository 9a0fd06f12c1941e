package handlers

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
)

type ReviewHandler struct {
	Base
	reviews repositories.ReviewRepositoryImpl
	users   repositories.UserRepositoryImpl
}

func NewReviewHandler(base Base, reviews repositories.ReviewRepositoryImpl, users repositories.UserRepositoryImpl) *ReviewHandler {
	return &ReviewHandler{Base: base, reviews: reviews, users: users}
}

type reviewRequest struct {
	Reviewed uint    `json:"reviewed" validate:"required"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment"`
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var reviewed *uint
	if id, ok := helpers.ParseID(r.URL.Query().Get("reviewed")); ok {
		reviewed = &id
	}
	reviews, err := h.reviews.List(r.Context(), reviewed)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := helpers.DecodeJSON(r, h.Validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	reviewer := mustUser(r)
	if req.Reviewed == reviewer.ID {
		h.fail(w, r, apperrors.ValidationField("reviewed", "you cannot review yourself"))
		return
	}
	target, err := h.users.FindByID(r.Context(), req.Reviewed)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if target == nil {
		h.fail(w, r, apperrors.ValidationField("reviewed", "user does not exist"))
		return
	}

	review := &models.Review{
		ReviewerID: reviewer.ID,
		ReviewedID: target.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.reviews.Create(r.Context(), review); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.reviews.GetByID(r.Context(), review.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, created)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "review")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	review, err := h.reviews.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if review == nil {
		h.fail(w, r, apperrors.NotFound("review"))
		return
	}
	if review.ReviewerID != mustUser(r).ID {
		h.fail(w, r, apperrors.Forbidden("only the author can delete this review"))
		return
	}
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
