package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/repository"
	"github.com/utafrali/ContentSearchGo/internal/search"
	apperrors "github.com/utafrali/ContentSearchGo/pkg/errors"
)

// SearchParams carries one search request as received from the transport
// layer. List filters arrive as raw comma-separated strings; numbers and
// dates are already parsed. Limit zero means "not specified".
type SearchParams struct {
	Query      string
	Types      string
	Categories string
	Tags       string
	PriceMin   *float64
	PriceMax   *float64
	DateFrom   *time.Time
	DateTo     *time.Time
	Sort       string
	Limit      int
	Offset     int
	AfterID    string
}

// SearchService orchestrates search requests: it validates parameters,
// resolves sorting and pagination, runs the query and shapes the response.
// An optional Redis cache short-circuits repeated identical requests.
type SearchService struct {
	repo     repository.ContentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewSearchService creates a new SearchService. cache may be nil to disable
// response caching.
func NewSearchService(repo repository.ContentRepository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *SearchService {
	return &SearchService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Search executes one search request.
func (s *SearchService) Search(ctx context.Context, p *SearchParams) (*domain.SearchResponse, error) {
	limit := p.Limit
	if limit == 0 {
		limit = search.DefaultLimit
	}
	if limit < 1 || limit > search.MaxLimit {
		return nil, apperrors.InvalidParameter("limit",
			fmt.Sprintf("must be between 1 and %d", search.MaxLimit))
	}
	if p.Offset < 0 {
		return nil, apperrors.InvalidParameter("offset", "must not be negative")
	}
	if p.AfterID != "" {
		if _, err := uuid.Parse(p.AfterID); err != nil {
			return nil, apperrors.InvalidParameter("after_id", "must be a valid UUID")
		}
	}
	if p.PriceMin != nil && *p.PriceMin < 0 {
		return nil, apperrors.InvalidParameter("price_min", "must not be negative")
	}
	if p.PriceMax != nil && *p.PriceMax < 0 {
		return nil, apperrors.InvalidParameter("price_max", "must not be negative")
	}

	text := strings.TrimSpace(p.Query)
	req := repository.SearchRequest{
		Text: text,
		Filters: search.Filters{
			Types:      search.SplitList(p.Types),
			Categories: search.SplitList(p.Categories),
			Tags:       search.SplitList(p.Tags),
			PriceMin:   p.PriceMin,
			PriceMax:   p.PriceMax,
			DateFrom:   p.DateFrom,
			DateTo:     p.DateTo,
		},
		Sort: search.ResolveSort(p.Sort, text != ""),
		Page: search.Page{Limit: limit, Offset: p.Offset, AfterID: p.AfterID},
	}

	cacheKey := s.cacheKey(req)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	items, total, err := s.repo.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &domain.SearchResponse{
		Metadata: domain.SearchMetadata{
			Query:        text,
			TotalResults: total,
			Limit:        limit,
			Offset:       p.Offset,
		},
		Results: items,
	}
	// A full page means there may be more; hand out the last id as cursor.
	if len(items) > 0 && len(items) >= limit {
		cursor := items[len(items)-1].ID
		resp.Metadata.NextCursor = &cursor
	}

	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

// cacheKey derives a stable key from the fully resolved request, so two
// spellings of the same search hit the same entry.
func (s *SearchService) cacheKey(req repository.SearchRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(sum[:])
}

func (s *SearchService) cacheGet(ctx context.Context, key string) *domain.SearchResponse {
	if s.cache == nil || key == "" {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "search cache read failed", slog.String("error", err.Error()))
		}
		return nil
	}
	var resp domain.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *SearchService) cacheSet(ctx context.Context, key string, resp *domain.SearchResponse) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "search cache write failed", slog.String("error", err.Error()))
	}
}
