package server

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-crash/internal/api"
	"github.com/joeblew999/plat-crash/internal/host"
	"github.com/joeblew999/plat-crash/internal/panel"
	"github.com/joeblew999/plat-crash/internal/refdata"
	"github.com/joeblew999/plat-crash/internal/service"
	"github.com/joeblew999/plat-crash/internal/surface/web"
)

// Config holds the server configuration.
type Config struct {
	Host       string
	Port       string
	DataDir    string
	WebDir     string // Path to web/ directory for static files and templates
	Boundaries string // Path to the county boundaries GeoJSON file
	FeatureURL string // Remote feature service layer URL
}

// Server is the crash panel HTTP server.
type Server struct {
	config  Config
	mux     *http.ServeMux
	humaAPI huma.API
	panel   *panel.Panel
	web     *web.Surface
	source  *host.CrashSource
	regions int
}

// New creates a new crash panel server. The reference dataset is a
// construction precondition: without county boundaries nothing can be
// drawn, so a missing or unreadable file is fatal.
func New(cfg Config) (*Server, error) {
	regions, err := refdata.Load(cfg.Boundaries)
	if err != nil {
		return nil, fmt.Errorf("loading reference dataset: %w", err)
	}

	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("plat-crash API", "1.0.0")
	humaConfig.Info.Description = "NC crash dashboard panel: per-county choropleth, clustered crash markers and a filtered remote route layer."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	bus := service.NewEventBus()
	webSurface := web.New(bus)

	p, err := panel.New(panel.Config{
		Surface:    webSurface,
		Regions:    regions,
		FeatureURL: cfg.FeatureURL,
		Bus:        bus,
	})
	if err != nil {
		return nil, err
	}

	settings := host.NewSettingsStore(cfg.DataDir)

	// The DuckDB source is optional at startup; the panel can still be
	// driven through POST /api/v1/panel/update without it.
	source, err := host.OpenCrashSource(cfg.DataDir)
	if err != nil {
		log.Printf("crash source unavailable: %v", err)
		source = nil
	}
	provider := host.NewProvider(source, settings, p)

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		panel:   p,
		web:     webSurface,
		source:  source,
		regions: regions.Len(),
	}

	s.routes(&api.Services{
		Panel:    p,
		Provider: provider,
		Web:      webSurface,
	})
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close shuts down the panel and releases server resources.
func (s *Server) Close() error {
	s.panel.Close()
	if s.source != nil {
		return s.source.Close()
	}
	return nil
}

// OpenAPI returns the API description for spec export.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes(services *api.Services) {
	handler := api.NewAPIHandler(services)
	handler.RegisterHealth(s.humaAPI)
	handler.RegisterPanel(s.humaAPI)
	handler.RegisterSettings(s.humaAPI)
	handler.RegisterDatasets(s.humaAPI)

	api.NewInfoHandler(s.config.DataDir, s.regions, s.source != nil).RegisterRoutes(s.humaAPI)
	api.NewEventHandler(services.Web).RegisterRoutes(s.humaAPI)

	// The browser fetches boundary geometry once and draws it itself;
	// only styles and tooltips travel over the event stream.
	s.mux.HandleFunc("/boundaries.geojson", s.handleBoundaries)

	// Static files and the viewer page
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	s.mux.HandleFunc("/viewer", s.handleViewer)
}

func (s *Server) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/geo+json")
	http.ServeFile(w, r, s.config.Boundaries)
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "viewer.html")
	http.ServeFile(w, r, templatePath)
}
