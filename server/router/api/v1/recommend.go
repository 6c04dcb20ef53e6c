package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/animesense/internal/version"
)

// QueryRequest is the body of POST /recommend.
type QueryRequest struct {
	Query string `json:"query"`
}

// RootResponse describes the service.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthResponse reports index availability.
type HealthResponse struct {
	Status string `json:"status"`
}

// Root returns service metadata.
// GET /
func (s *APIV1Service) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Message: "Anime Recommender API",
		Version: version.Version,
	})
}

// Health reports whether the embedding index is loaded and reachable.
// GET /health
func (s *APIV1Service) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if s.Store == nil || !s.Store.Healthy(ctx) {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// Recommend answers one free-text query with a recommendation list.
// Chain failures are soft: the response is HTTP 200 with a populated
// error field and empty recommendations.
// POST /recommend
func (s *APIV1Service) Recommend(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query cannot be empty"})
	}

	if s.Store == nil || s.Recommender == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "embedding index is not loaded"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.Profile.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp := s.Recommender.Recommend(ctx, query)
	slog.Info("recommendation served",
		"query", query,
		"results", len(resp.Recommendations),
		"duration", time.Since(start),
		"failed", resp.Error != nil,
	)

	return c.JSON(http.StatusOK, resp)
}
