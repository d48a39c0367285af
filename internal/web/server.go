package web

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sse "github.com/r3labs/sse/v2"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/dashboard"
	"github.com/wheelibin/yadom/internal/relay"
)

type ThemeService interface {
	ThemeAt(t time.Time) string
}

type Options struct {
	Title string
	// when set, camera streams are played through this relay path
	StreamPath      string
	PlaybackTimeout time.Duration
}

type Server struct {
	logger  *log.Logger
	dash    *dashboard.Dashboard
	oauth   *auth.OAuth
	theme   ThemeService
	events  *sse.Server
	relay   http.Handler
	stream  http.Handler
	options Options
}

func NewServer(
	logger *log.Logger,
	dash *dashboard.Dashboard,
	oauth *auth.OAuth,
	theme ThemeService,
	events *sse.Server,
	apiRelay http.Handler,
	streamRelay http.Handler,
	options Options,
) *Server {
	if options.Title == "" {
		options.Title = "Smart home"
	}
	if options.PlaybackTimeout == 0 {
		options.PlaybackTimeout = constants.CameraPlaybackTimeout
	}
	return &Server{
		logger:  logger,
		dash:    dash,
		oauth:   oauth,
		theme:   theme,
		events:  events,
		relay:   apiRelay,
		stream:  streamRelay,
		options: options,
	}
}

// NewEventServer creates the sse server dashboard refreshes are published on.
func NewEventServer() *sse.Server {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(constants.SnapshotStream)
	return server
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/content", s.handleContent)
	r.Post("/filter/{filter}", s.handleFilter)
	r.Post("/refresh", s.handleRefresh)

	r.Get("/devices/{id}", s.handleDevice)
	r.Post("/devices/{id}/actions", s.handleAction)
	r.Get("/devices/{id}/camera", s.handleCamera)

	r.Get("/scenarios", s.handleScenarios)
	r.Post("/scenarios/{id}/run", s.handleRunScenario)

	r.Post("/auth/token", s.handleToken)
	r.Get("/auth/login", s.handleLogin)
	r.Get("/auth/callback", s.handleCallbackPage)
	r.Post("/auth/callback", s.handleCallback)
	r.Post("/auth/logout", s.handleLogout)

	r.Get("/debug", s.handleDebug)
	r.Get("/debug/structure", s.handleDebugStructure)

	if s.events != nil {
		r.Get("/events", s.events.ServeHTTP)
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(relay.CORS)
		if s.stream != nil {
			r.Handle("/stream", s.stream)
		}
		if s.relay != nil {
			r.Handle("/*", s.relay)
		}
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
