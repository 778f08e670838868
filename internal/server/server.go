package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"propdash/internal/charts"
	"propdash/internal/config"
	"propdash/internal/dashboard"
	"propdash/internal/fetchers"
	"propdash/internal/heatmap"
	"propdash/internal/logger"
	"propdash/internal/mocks"
	"propdash/internal/page"
	"propdash/internal/transform"
)

const (
	dashboardTitle  = "London Property Dashboard"
	shutdownTimeout = 30 * time.Second
	maxPoll         = 30 * time.Second
)

// Server represents the main application server
type Server struct {
	Config    *config.Config
	Source    fetchers.RawSource
	Charts    *charts.ChartGenerator
	Dashboard *dashboard.Dashboard
	Driver    *dashboard.Driver
	Map       *heatmap.MapWidget
	Page      *page.Builder
	Version   string

	log *logger.Logger
	// ctx outlives requests; refreshes fired by handlers run under it
	ctx context.Context
}

// NewServer creates a server fetching from PropertyData, or from the
// bundled sample payloads in mockup mode
func NewServer(cfg *config.Config) (*Server, error) {
	var source fetchers.RawSource
	if cfg.MockupMode {
		source = mocks.NewMockService()
		logger.Component("server").Info("Mockup mode enabled - using bundled sample data")
	} else {
		source = fetchers.NewPropertyDataFetcher(
			cfg.PropertyDataBaseURL,
			cfg.PropertyDataAPIKey,
			cfg.FetchTimeout,
			fetchers.EndpointsFromConfig(cfg),
		)
	}
	return NewServerWithSource(cfg, source)
}

// NewServerWithSource creates a server drawing from source
func NewServerWithSource(cfg *config.Config, source fetchers.RawSource) (*Server, error) {
	builder, err := page.NewBuilder()
	if err != nil {
		return nil, err
	}

	opts := transform.DefaultOptions()
	opts.SynthesizeEmpty = cfg.PlanningSynthesize

	chartGen := charts.NewChartGenerator(cfg.AssetsHost)
	layout := dashboard.DefaultLayout()
	pipelines := dashboard.DefaultPipelines(layout, source, transform.New(opts), chartGen)
	mapWidget := heatmap.NewMapWidget(dashboard.ElementMap, nil)
	dash := dashboard.New(dashboard.NewRegistry(layout, nil), pipelines, mapWidget)

	return &Server{
		Config:    cfg,
		Source:    source,
		Charts:    chartGen,
		Dashboard: dash,
		Driver:    dashboard.NewDriver(dash, cfg.RefreshInterval),
		Map:       mapWidget,
		Page:      builder,
		Version:   config.GetVersion(),
		log:       logger.Component("server"),
		ctx:       context.Background(),
	}, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/api/charts/", s.HandleChart)
	mux.HandleFunc("/api/heat", s.HandleHeat)
	mux.HandleFunc("/api/resize", s.HandleResize)
	mux.HandleFunc("/api/refresh", s.HandleRefresh)
	mux.HandleFunc("/charts/", s.HandleChartPNG)

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Run starts the refresh driver and serves HTTP until ctx is done, then
// shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	httpServer := &http.Server{
		Addr:         ":" + s.Config.Port,
		Handler:      s.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		s.Driver.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		s.log.Infof("Server listening on :%s", s.Config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("HTTP server error: %w", err)
		}
	}

	s.log.Info("Shutting down server...")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", err)
	}

	<-driverDone
	s.Driver.Wait()
	s.log.Info("Server stopped")
	return runErr
}

// pollInterval is how often the page asks for fresh chart options
func (s *Server) pollInterval() time.Duration {
	if s.Config.RefreshInterval > 0 && s.Config.RefreshInterval < maxPoll {
		return s.Config.RefreshInterval
	}
	return maxPoll
}

func (s *Server) page(snippets []charts.ChartSnippet) page.Page {
	return page.Page{
		Title:      dashboardTitle,
		Version:    s.Version,
		AssetsHost: s.Charts.AssetsHost(),
		Notes:      s.Config.DashboardNotes,
		Charts:     snippets,
		Map:        s.Map.State(),
		Poll:       s.pollInterval(),
	}
}
