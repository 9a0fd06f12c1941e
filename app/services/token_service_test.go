package services

import (
	"testing"
	"time"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndParse(t *testing.T) {
	svc := NewTokenService("top-secret", time.Hour)

	token, err := svc.Issue(&models.User{ID: 42, IsStaff: true})
	require.NoError(t, err)

	id, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenRejectsForeignSignatureAndExpiry(t *testing.T) {
	issuer := NewTokenService("one", time.Hour)
	token, err := issuer.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenService("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenService("one", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Issue(&models.User{ID: 1})
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
