package ui

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"featurecard/domain/feature"
	"featurecard/internal"
	"featurecard/internal/plotspec"
	"featurecard/ports"
	"featurecard/ui/services"
)

//go:embed templates/*.html templates/card/*.html
var templateFiles embed.FS

// FeatureService answers the feature-card API. adapters/dataset.Service
// implements it.
type FeatureService interface {
	Target() string
	FeatureInfoJSON(ctx context.Context, key feature.Key) ([]byte, error)
	StackedDataJSON(ctx context.Context, key feature.Key, target string) ([]byte, error)
}

// Config wires the server to its collaborators.
type Config struct {
	Features FeatureService
	// Source feeds the card page controllers. It may be the feature service
	// itself or a client of a remote one.
	Source    ports.FeatureSource
	Renderers ports.RendererLoader
	// Surface, when set, also receives every chart drawn for the card page.
	Surface  ports.Surface
	Viewport plotspec.Viewport
}

// Server represents the web server for the feature card
type Server struct {
	router        *gin.Engine
	features      FeatureService
	source        ports.FeatureSource
	renderers     ports.RendererLoader
	archive       ports.Surface
	viewport      plotspec.Viewport
	renderService *services.RenderService
	logger        *internal.Logger
}

// NewServer creates a new web server instance with its routes set up
func NewServer(cfg Config) (*Server, error) {
	templatesFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}
	renderService, err := services.NewRenderService(templatesFS)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:        gin.New(),
		features:      cfg.Features,
		source:        cfg.Source,
		renderers:     cfg.Renderers,
		archive:       cfg.Surface,
		viewport:      cfg.Viewport,
		renderService: renderService,
		logger:        internal.DefaultLogger.With("Server"),
	}
	if s.source == nil {
		if src, ok := cfg.Features.(ports.FeatureSource); ok {
			s.source = src
		}
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/feature-card/:fileId")
	api.GET("/get_feature_info/", s.handleFeatureInfo)
	api.GET("/get_stacked_data/", s.handleStackedData)
	api.GET("/plot_spec", s.handlePlotSpec)

	s.router.GET("/feature-card/:fileId", s.handleCardPage)
	s.router.GET("/feature-card/:fileId/chart", s.handleCardChart)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting feature card server on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"renderer_ready": s.renderers != nil && s.renderers.Ready(),
	})
}
