package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/services"
	"github.com/UltraPon/SellUp/app/utils/format"
	"go.uber.org/zap"
)

const (
	multipartMemory = 32 << 20
	// One image over the count limit still has to reach screening to be reported.
	maxListingBody = (services.MaxListingImages+1)*services.MaxImageSize + 1<<20
)

type ListingHandler struct {
	Base
	listings *services.ListingService
	query    *services.ListingQuery
	maxBody  int64
}

func NewListingHandler(base Base, listings *services.ListingService, query *services.ListingQuery) *ListingHandler {
	return &ListingHandler{Base: base, listings: listings, query: query, maxBody: maxListingBody}
}

type listingResponse struct {
	*models.Listing
	PriceDisplay string `json:"price_display"`
}

type createListingResponse struct {
	listingResponse
	RejectedImages []services.RejectedImage `json:"rejected_images"`
}

func toListingResponse(l *models.Listing) listingResponse {
	return listingResponse{Listing: l, PriceDisplay: format.Price(l.Price)}
}

func toListingResponses(listings []models.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.query.Search(r.Context(), services.ParseListingSearchParams(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.query.ByOwner(r.Context(), mustUser(r).ID, services.ParseListingSearchParams(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	listings, err := h.query.ByPrimaryCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "listing")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, toListingResponse(listing))
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func listingInputFromForm(r *http.Request) (services.ListingInput, error) {
	in := services.ListingInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: optionalString(r.FormValue("description")),
		Price:       strings.TrimSpace(r.FormValue("price")),
		Address:     optionalString(r.FormValue("address")),
	}

	rawCategory := r.FormValue("category_id")
	if rawCategory == "" {
		rawCategory = r.FormValue("category")
	}
	if rawCategory != "" {
		id, err := strconv.ParseUint(rawCategory, 10, 64)
		if err != nil {
			return in, apperrors.ValidationField("category_id", "must be a valid category id")
		}
		in.CategoryID = uint(id)
	}

	if raw := strings.TrimSpace(r.FormValue("attributes")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Attributes); err != nil {
			return in, apperrors.ValidationField("attributes", "must be a JSON object")
		}
	}
	return in, nil
}

// openUploads opens every file of the images field. The returned closer
// releases all of them.
func openUploads(files []*multipart.FileHeader) ([]services.ImageUpload, func(), error) {
	var (
		uploads []services.ImageUpload
		opened  []io.Closer
	)
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperrors.ValidationField("images", "could not read "+fh.Filename)
		}
		opened = append(opened, f)
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}
	return uploads, closeAll, nil
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, apperrors.ValidationField("body", fmt.Sprintf("request body too large, limit is %d bytes", tooLarge.Limit)))
			return
		}
		h.fail(w, r, apperrors.ValidationField("body", "expected multipart/form-data"))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	in, err := listingInputFromForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := helpers.Validate(h.Validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	uploads, closeAll, err := openUploads(r.MultipartForm.File["images"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeAll()

	result, err := h.listings.Create(r.Context(), mustUser(r).ID, in, uploads)
	if err != nil {
		if appErr := apperrors.As(err); appErr.Kind == apperrors.KindValidation && appErr.Err != nil {
			h.Logger.Warn("listing rejected", zap.Error(appErr.Err))
		}
		h.fail(w, r, err)
		return
	}

	rejected := result.RejectedImages
	if rejected == nil {
		rejected = []services.RejectedImage{}
	}
	h.json(w, http.StatusCreated, createListingResponse{
		listingResponse: toListingResponse(result.Listing),
		RejectedImages:  rejected,
	})
}

type updateListingRequest struct {
	Title       string                 `json:"title" validate:"required,max=255"`
	Description *string                `json:"description"`
	Price       json.Number            `json:"price" validate:"required"`
	Address     *string                `json:"address" validate:"omitempty,max=255"`
	CategoryID  uint                   `json:"category_id" validate:"required"`
	Attributes  map[string]interface{} `json:"attributes"`
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "listing")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateListingRequest
	if err := helpers.DecodeJSON(r, h.Validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	listing, err := h.listings.Update(r.Context(), mustUser(r), id, services.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price.String(),
		Address:     req.Address,
		CategoryID:  req.CategoryID,
		Attributes:  req.Attributes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "listing")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.listings.Delete(r.Context(), mustUser(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
