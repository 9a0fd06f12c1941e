package helpers

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUser      contextKey = "userObject"
	ContextKeyAuthVia   contextKey = "authVia"
	ContextKeyRequestID contextKey = "requestID"
)

const (
	AuthViaToken   = "token"
	AuthViaSession = "session"
)

func WithUser(ctx context.Context, user *models.User, via string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, user)
	return context.WithValue(ctx, ContextKeyAuthVia, via)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(ContextKeyUser).(*models.User)
	return user
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

func AuthVia(ctx context.Context) string {
	via, _ := ctx.Value(ContextKeyAuthVia).(string)
	return via
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := toSnake(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = "this field is required"
		case "email":
			errorMessages[field] = "enter a valid email address"
		case "numeric":
			errorMessages[field] = "must be a number"
		case "min":
			errorMessages[field] = fmt.Sprintf("must be at least %s", err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("must be at most %s", err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("must be one of: %s", err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("failed %s validation", err.Tag())
		}
	}
	return errorMessages
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ParseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func PasswordCompare(hashPass string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPass), password) == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
