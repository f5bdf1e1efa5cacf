package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moovidex/engine/internal/catalog"
	"github.com/moovidex/engine/internal/domain"
	"github.com/moovidex/engine/internal/export"
	"github.com/moovidex/engine/internal/player"
	"github.com/moovidex/engine/pkg/validator"
)

type iSearchClient interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

type iDetailClient interface {
	MovieDetails(ctx context.Context, id int) (domain.TitleDetails, error)
	TVDetails(ctx context.Context, id int) (domain.TitleDetails, error)
}

type iStreamTokenProvider interface {
	StreamURL(ctx context.Context, req catalog.StreamRequest) (string, error)
}

type iExporter interface {
	Open(method export.Method, streamURL string)
}

type Config struct {
	IdleHideDelay  time.Duration
	SearchDebounce time.Duration
	MinQueryLength int
}

// Controller is the surface transport: it upgrades each rendering surface
// to a websocket, builds one player engine per connection and routes
// messages between the surface and the engine.
type Controller struct {
	searchClient  iSearchClient
	detailClient  iDetailClient
	tokenProvider iStreamTokenProvider
	sessions      player.SessionRepository
	exporter      iExporter
	images        catalog.ImageURLBuilder

	upgrader websocket.Upgrader
	validate *validator.Validator
	logger   *slog.Logger
	cfg      Config
}

func NewController(
	searchClient iSearchClient,
	detailClient iDetailClient,
	tokenProvider iStreamTokenProvider,
	sessions player.SessionRepository,
	exporter iExporter,
	images catalog.ImageURLBuilder,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		searchClient:  searchClient,
		detailClient:  detailClient,
		tokenProvider: tokenProvider,
		sessions:      sessions,
		exporter:      exporter,
		images:        images,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
		cfg:      cfg,
	}
}
