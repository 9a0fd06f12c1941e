package middlewares

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/UltraPon/SellUp/app/services"
	"github.com/UltraPon/SellUp/app/utils/sessions"
	"go.uber.org/zap"
)

// Authenticate attaches the requesting user to the context when the request
// carries a valid bearer token or session cookie. It never rejects.
func (m *Middleware) Authenticate(tokens *services.TokenService, store sessions.SessionStore, users repositories.UserRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				userID uint
				via    string
			)
			if raw := bearerToken(r); raw != "" {
				id, err := tokens.Parse(raw)
				if err != nil {
					helpers.RenderError(m.render, w, r, m.logger, apperrors.Unauthorized("invalid or expired token"))
					return
				}
				userID, via = id, helpers.AuthViaToken
			} else if id, ok := store.GetUserID(r); ok {
				userID, via = id, helpers.AuthViaSession
			}

			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				helpers.RenderError(m.render, w, r, m.logger, err)
				return
			}
			if user == nil || !user.IsActive {
				m.logger.Debug("credentials reference unknown or inactive user", zap.Uint("user_id", userID))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(helpers.WithUser(r.Context(), user, via)))
		})
	}
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if helpers.CurrentUser(r.Context()) == nil {
			helpers.RenderError(m.render, w, r, m.logger, apperrors.Unauthorized("authentication credentials were not provided"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
