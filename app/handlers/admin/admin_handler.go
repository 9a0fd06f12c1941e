package admin

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// AdminHandler serves the staff-only category management endpoints and the
// user directory.
type AdminHandler struct {
	render     *render.Render
	validator  *validator.Validate
	logger     *zap.Logger
	categories *services.CategoryService
	userRepo   repositories.UserRepositoryImpl
	roleRepo   repositories.RoleRepositoryImpl
}

func NewAdminHandler(
	rnd *render.Render,
	v *validator.Validate,
	logger *zap.Logger,
	categories *services.CategoryService,
	userRepo repositories.UserRepositoryImpl,
	roleRepo repositories.RoleRepositoryImpl,
) *AdminHandler {
	return &AdminHandler{
		render:     rnd,
		validator:  v,
		logger:     logger,
		categories: categories,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
	}
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	helpers.RenderError(h.render, w, r, h.logger, err)
}

func pathID(r *http.Request, what string) (uint, error) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		return 0, apperrors.NotFound(what)
	}
	return id, nil
}
