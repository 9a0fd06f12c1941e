package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/utils/renderer"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateListingRejectsOversizedBody(t *testing.T) {
	h := NewListingHandler(Base{Render: renderer.New(false), Validator: validator.New(), Logger: zap.NewNop()}, nil, nil)
	h.maxBody = 1024

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "Pixel"))
	part, err := mw.CreateFormFile("images", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, 8192))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/listings", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp helpers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields["body"], "too large")
}
