package handlers

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// Base carries what every handler needs to decode, validate and answer.
type Base struct {
	Render    *render.Render
	Validator *validator.Validate
	Logger    *zap.Logger
}

type messageResponse struct {
	Message string `json:"message"`
}

func (b Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	helpers.RenderError(b.Render, w, r, b.Logger, err)
}

func (b Base) json(w http.ResponseWriter, status int, v interface{}) {
	_ = b.Render.JSON(w, status, v)
}

func (b Base) pathID(r *http.Request, name, what string) (uint, error) {
	id, ok := helpers.ParseID(mux.Vars(r)[name])
	if !ok {
		return 0, apperrors.NotFound(what)
	}
	return id, nil
}

// mustUser is only called behind the auth middleware.
func mustUser(r *http.Request) *models.User {
	return helpers.CurrentUser(r.Context())
}
