package middlewares

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"go.uber.org/zap"
)

func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.CurrentUser(r.Context())
		if user == nil {
			helpers.RenderError(m.render, w, r, m.logger, apperrors.Unauthorized("authentication credentials were not provided"))
			return
		}
		if !user.HasStaffAccess() {
			m.logger.Warn("staff-only endpoint refused", zap.Uint("user_id", user.ID), zap.String("path", r.URL.Path))
			helpers.RenderError(m.render, w, r, m.logger, apperrors.Forbidden("staff permissions required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
