// Package server hosts the repository browser page and the HTML fragments
// its script swaps in.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/ziadkadry99/repo-browser/internal/cache"
	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/tree"
	"github.com/ziadkadry99/repo-browser/internal/viewer"
)

// DefaultSessionTTL is how long an idle page session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Mount places one repository browser in a host container.
type Mount struct {
	Container  string
	Coordinate gateway.Coordinate
}

// Config holds server configuration.
type Config struct {
	Port       int
	AllowAll   bool // allow all CORS origins (dev mode)
	SessionTTL time.Duration
	Title      string
	Mounts     []Mount

	// GatewayOptions configure every gateway client the server creates.
	GatewayOptions []gateway.Option
	// ModalOptions configure the modal of every page.
	ModalOptions []viewer.ModalOption
}

// Server serves pages. Each page load gets its own session holding the
// browsers and the modal of that page.
type Server struct {
	cfg        Config
	log        zerolog.Logger
	sessions   *sessionStore
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for the configured mounts.
func New(cfg Config, log zerolog.Logger) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Title == "" {
		cfg.Title = "Repository Files"
	}
	s := &Server{
		cfg:      cfg,
		log:      log,
		sessions: newSessionStore(cfg.SessionTTL),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handlePage)
	r.Get("/static/style.css", serveAsset("text/css; charset=utf-8", cssContent))
	r.Get("/static/browser.js", serveAsset("application/javascript; charset=utf-8", jsContent))

	r.Route("/s/{session}", func(r chi.Router) {
		r.Route("/browsers/{container}", func(r chi.Router) {
			r.Get("/tree", s.handleTree)
			r.Post("/toggle", s.handleToggle)
			r.Post("/open", s.handleOpen)
		})
		r.Post("/modal/close", s.handleClose)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Sessions returns the number of live page sessions.
func (s *Server) Sessions() int { return s.sessions.Len() }

// newSession builds the browsers and the lazily created modal of one page.
// Every browser owns a gateway client, and with it a private listing
// cache; the modal downloads through its own client.
func (s *Server) newSession(id string) *session {
	page := viewer.NewPage(func() *viewer.Modal {
		fetcher := gateway.NewClient(s.gatewayOptions()...)
		opts := append([]viewer.ModalOption{viewer.WithModalLogger(s.log)}, s.cfg.ModalOptions...)
		return viewer.NewModal(fetcher, opts...)
	})

	sess := &session{
		id:       id,
		page:     page,
		browsers: make(map[string]*tree.Browser, len(s.cfg.Mounts)),
	}
	for _, m := range s.cfg.Mounts {
		client := gateway.NewClient(append(s.gatewayOptions(),
			gateway.WithCache(cache.New[[]gateway.Entry]()))...)
		log := s.log.With().Str("session", id).Str("container", m.Container).Logger()
		sess.browsers[m.Container] = tree.NewBrowser(tree.Config{
			Container:  m.Container,
			Coordinate: m.Coordinate,
			RepoURL:    client.RepoURL(m.Coordinate),
			Lister:     client,
			Viewer:     page,
			Logger:     &log,
		})
	}
	return sess
}

func (s *Server) gatewayOptions() []gateway.Option {
	opts := []gateway.Option{gateway.WithLogger(s.log)}
	return append(opts, s.cfg.GatewayOptions...)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Port)
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", s.Addr()).Int("repositories", len(s.cfg.Mounts)).Msg("repobrowse listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
