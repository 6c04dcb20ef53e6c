// Package v1 exposes the recommendation chain over the public JSON API.
package v1

import (
	"context"

	"github.com/labstack/echo/v4"
	mw "github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/plugin/ai/recommend"
	"github.com/hrygo/animesense/server/middleware"
	"github.com/hrygo/animesense/store"
)

// Recommender answers one free-text query with a recommendation list.
type Recommender interface {
	Recommend(ctx context.Context, query string) *recommend.Response
}

// APIV1Service holds the process-wide collaborators: the loaded index
// and the recommendation chain, constructed once at service start.
type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Recommender Recommender
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, recommender Recommender) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Recommender: recommender,
	}
}

// Register wires the v1 routes onto the echo server. The API is public:
// CORS allows all origins.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.Use(mw.CORS())

	limiter := middleware.NewRateLimiter()

	echoServer.GET("/", s.Root)
	echoServer.GET("/health", s.Health)
	echoServer.POST("/recommend", s.Recommend, limiter.Middleware())
}
