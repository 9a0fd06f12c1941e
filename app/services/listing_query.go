package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListingSearchParams is the tolerant parse of a listing search request.
// Malformed values are dropped, never reported.
type ListingSearchParams struct {
	CategoryID *uint
	Query      string
	City       string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
}

func ParseListingSearchParams(values url.Values) ListingSearchParams {
	p := ListingSearchParams{
		Query: strings.TrimSpace(values.Get("q")),
		City:  NormalizeCity(values.Get("city")),
	}
	if id, ok := parseUint(values.Get("category")); ok {
		p.CategoryID = &id
	}
	p.PriceMin = parseDecimal(values.Get("price_min"))
	p.PriceMax = parseDecimal(values.Get("price_max"))
	return p
}

func parseUint(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func parseDecimal(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

var cityPrefixes = []string{"город", "г."}

// NormalizeCity strips the "г." and "город" locality prefixes from a city
// term. "город" only counts as a prefix when followed by a separator, so
// "Городец" is kept intact.
func NormalizeCity(city string) string {
	city = strings.TrimSpace(city)
	for {
		stripped := false
		lower := strings.ToLower(city)
		for _, prefix := range cityPrefixes {
			if !strings.HasPrefix(lower, prefix) {
				continue
			}
			rest := city[len(prefix):]
			if !strings.HasSuffix(prefix, ".") && rest != "" {
				r, _ := utf8.DecodeRuneInString(rest)
				if !unicode.IsSpace(r) && r != '.' {
					continue
				}
			}
			city = strings.TrimSpace(strings.TrimLeft(rest, "."))
			stripped = true
			break
		}
		if !stripped {
			return city
		}
	}
}

type ListingQuery struct {
	listings repositories.ListingRepositoryImpl
	resolver CategoryResolver
	logger   *zap.Logger
}

func NewListingQuery(listings repositories.ListingRepositoryImpl, resolver CategoryResolver, logger *zap.Logger) *ListingQuery {
	return &ListingQuery{listings: listings, resolver: resolver, logger: logger}
}

func (q *ListingQuery) Search(ctx context.Context, p ListingSearchParams) ([]models.Listing, error) {
	filter, err := q.filter(ctx, p)
	if err != nil {
		return nil, err
	}
	q.logger.Debug("listing search",
		zap.Int("categories", len(filter.CategoryIDs)),
		zap.String("q", filter.Query),
		zap.String("city", filter.City))
	return q.listings.Search(ctx, filter)
}

// ByOwner applies the same search params, scoped to the owner's listings.
func (q *ListingQuery) ByOwner(ctx context.Context, userID uint, p ListingSearchParams) ([]models.Listing, error) {
	filter, err := q.filter(ctx, p)
	if err != nil {
		return nil, err
	}
	filter.UserID = &userID
	return q.listings.Search(ctx, filter)
}

func (q *ListingQuery) filter(ctx context.Context, p ListingSearchParams) (repositories.ListingFilter, error) {
	filter := repositories.ListingFilter{
		Query:    p.Query,
		City:     p.City,
		PriceMin: p.PriceMin,
		PriceMax: p.PriceMax,
	}
	if p.CategoryID != nil {
		ids, err := q.resolver.ResolveDescendants(ctx, *p.CategoryID)
		if err != nil {
			return filter, err
		}
		filter.CategoryIDs = ids
	}
	return filter, nil
}

// ByPrimaryCategory matches the listing's own category only, without
// descendants or legacy associations. A malformed id yields nothing.
func (q *ListingQuery) ByPrimaryCategory(ctx context.Context, rawID string) ([]models.Listing, error) {
	id, ok := parseUint(rawID)
	if !ok {
		return []models.Listing{}, nil
	}
	return q.listings.Search(ctx, repositories.ListingFilter{PrimaryCategoryID: &id})
}
