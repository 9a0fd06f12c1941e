package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RenderError writes err as a JSON payload with the status of its kind.
// Internal errors are logged and their details hidden.
func RenderError(rnd *render.Render, w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := apperrors.As(err)
	status := appErr.HTTPStatus()

	if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindUpstream {
		logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	_ = rnd.JSON(w, status, ErrorResponse{Error: appErr.Message, Fields: appErr.Fields})
}

// DecodeJSON decodes the request body into dst and validates it.
func DecodeJSON(r *http.Request, v *validator.Validate, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.ValidationField("body", "request body is empty")
		}
		return apperrors.ValidationField("body", "malformed JSON")
	}
	return Validate(v, dst)
}

func Validate(v *validator.Validate, dst interface{}) error {
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation(FormatValidationErrors(verrs))
		}
		return apperrors.Internal(err)
	}
	return nil
}
