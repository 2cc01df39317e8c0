// Package http exposes the content search service over HTTP.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ContentSearchGo/internal/service"
	apperrors "github.com/utafrali/ContentSearchGo/pkg/errors"
	"github.com/utafrali/ContentSearchGo/pkg/httputil"
	"github.com/utafrali/ContentSearchGo/pkg/validator"
)

const dateLayout = "2006-01-02"

// Handler serves the search and content endpoints.
type Handler struct {
	searchSvc   *service.SearchService
	contentSvc  *service.ContentService
	backfillSvc *service.BackfillService
	logger      *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(searchSvc *service.SearchService, contentSvc *service.ContentService, backfillSvc *service.BackfillService, logger *slog.Logger) *Handler {
	return &Handler{
		searchSvc:   searchSvc,
		contentSvc:  contentSvc,
		backfillSvc: backfillSvc,
		logger:      logger,
	}
}

// Search handles GET /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp, err := h.searchSvc.Search(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// searchRequestBody mirrors the query parameters for POST bodies, where
// clients with long filter lists avoid URL length limits.
type searchRequestBody struct {
	Query      string   `json:"q"`
	Types      string   `json:"type"`
	Categories string   `json:"category"`
	Tags       string   `json:"tags"`
	PriceMin   *float64 `json:"price_min" validate:"omitempty,gte=0"`
	PriceMax   *float64 `json:"price_max" validate:"omitempty,gte=0"`
	DateFrom   string   `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string   `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Sort       string   `json:"sort"`
	Limit      int      `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int      `json:"offset" validate:"omitempty,min=0"`
	AfterID    string   `json:"after_id" validate:"omitempty,uuid"`
}

// SearchPost handles POST /api/v1/search.
func (h *Handler) SearchPost(w http.ResponseWriter, r *http.Request) {
	var body searchRequestBody
	if err := validator.DecodeAndValidate(r, &body); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	params := &service.SearchParams{
		Query:      body.Query,
		Types:      body.Types,
		Categories: body.Categories,
		Tags:       body.Tags,
		PriceMin:   body.PriceMin,
		PriceMax:   body.PriceMax,
		Sort:       body.Sort,
		Limit:      body.Limit,
		Offset:     body.Offset,
		AfterID:    body.AfterID,
	}
	if body.DateFrom != "" {
		t, _ := time.Parse(dateLayout, body.DateFrom)
		params.DateFrom = &t
	}
	if body.DateTo != "" {
		t, _ := time.Parse(dateLayout, body.DateTo)
		params.DateTo = &t
	}

	resp, err := h.searchSvc.Search(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// Create handles POST /api/v1/content.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateContentInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := h.contentSvc.Create(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rec})
}

// Update handles PUT /api/v1/content/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var input service.UpdateContentInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := h.contentSvc.Update(r.Context(), id.String(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: rec})
}

// BulkLoad handles POST /api/v1/content/bulk.
func (h *Handler) BulkLoad(w http.ResponseWriter, r *http.Request) {
	var input service.BulkLoadInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	count, err := h.contentSvc.BulkLoad(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]any{
		"loaded":  count,
		"indexed": false,
	}})
}

// Reindex handles POST /api/v1/content/reindex. The backfill runs in the
// background; the handler returns as soon as the run is started.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	go func() {
		// Detach from the request so the run outlives the response.
		ctx := context.WithoutCancel(r.Context())
		if _, err := h.backfillSvc.Run(ctx); err != nil {
			h.logger.Error("background backfill failed", slog.String("error", err.Error()))
		}
	}()
	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{
		"status": "backfill started",
	}})
}

// parseSearchParams reads and validates the query string of a GET search.
// Unparseable values are rejected rather than silently defaulted.
func parseSearchParams(r *http.Request) (*service.SearchParams, error) {
	q := r.URL.Query()
	params := &service.SearchParams{
		Query:      q.Get("q"),
		Types:      q.Get("type"),
		Categories: q.Get("category"),
		Tags:       q.Get("tags"),
		Sort:       q.Get("sort"),
		AfterID:    q.Get("after_id"),
	}

	var err error
	if params.Limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return nil, err
	}
	if params.Offset, err = parseIntParam(q.Get("offset"), "offset"); err != nil {
		return nil, err
	}
	if params.PriceMin, err = parseFloatParam(q.Get("price_min"), "price_min"); err != nil {
		return nil, err
	}
	if params.PriceMax, err = parseFloatParam(q.Get("price_max"), "price_max"); err != nil {
		return nil, err
	}
	if params.DateFrom, err = parseDateParam(q.Get("date_from"), "date_from"); err != nil {
		return nil, err
	}
	if params.DateTo, err = parseDateParam(q.Get("date_to"), "date_to"); err != nil {
		return nil, err
	}
	return params, nil
}

func parseIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidParameter(name, "must be an integer")
	}
	return v, nil
}

func parseFloatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.InvalidParameter(name, "must be a number")
	}
	return &v, nil
}

func parseDateParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperrors.InvalidParameter(name, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
