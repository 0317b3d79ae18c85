package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"
)

// Defaults applied by New
const (
	DefaultAddr             = ":8080"
	DefaultActionsPerSecond = 5
	DefaultActionBurst      = 10
	leaveTimeout            = 5 * time.Second
	requestTimeout          = 15 * time.Second
)

// Config holds the configuration for the websocket server
type Config struct {
	// Listen address, defaults to DefaultAddr
	Addr string

	// Session is the game every connection joins
	Session session.Service

	// Per-connection inbound action limit
	ActionsPerSecond float64
	ActionBurst      int

	// AllowedOrigins restricts browser origins. Empty allows any.
	AllowedOrigins []string

	Logger *zerolog.Logger
}

// Server exposes a session over websockets. Each connection is one player.
type Server struct {
	session  session.Service
	http     *http.Server
	router   chi.Router
	upgrader websocket.Upgrader
	limit    rate.Limit
	burst    int
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[*playerConn]struct{}
	wg    sync.WaitGroup
}

// New creates a new websocket server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Session == nil {
		return nil, ErrNilSession
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	limit := cfg.ActionsPerSecond
	if limit <= 0 {
		limit = DefaultActionsPerSecond
	}
	burst := cfg.ActionBurst
	if burst <= 0 {
		burst = DefaultActionBurst
	}

	log := logging.OrNop(cfg.Logger)
	log = log.With().Str("component", "ws").Logger()

	s := &Server{
		session: cfg.Session,
		limit:   rate.Limit(limit),
		burst:   burst,
		log:     log,
		conns:   make(map[*playerConn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/ws", s.handleWebsocket)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/healthz", s.handleHealth)
		r.Get("/state", s.handleState)
		r.Get("/rounds", s.handleRounds)
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server stopped")
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("websocket server listening")
	return nil
}

// Stop shuts the HTTP server down and closes every open connection
func (s *Server) Stop(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	s.mu.Lock()
	for conn := range s.conns {
		conn.close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	socket, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := newPlayerConn(socket, rate.NewLimiter(s.limit, s.burst), s.log)
	joined, err := s.session.Join(r.Context(), &session.JoinInput{Sink: conn})
	if err != nil {
		s.log.Info().Err(err).Msg("join refused")
		_ = socket.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		conn.close()
		return
	}
	s.track(conn, true)
	defer s.track(conn, false)

	conn.welcome(joined)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		conn.writePump()
	}()

	conn.readPump(r.Context(), s.session, joined.PlayerID)

	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if err := s.session.Leave(ctx, &session.LeaveInput{PlayerID: joined.PlayerID}); err != nil && !errors.Is(err, session.ErrStopped) {
		s.log.Warn().Err(err).Uint64("player_id", joined.PlayerID).Msg("failed to leave session")
	}
}

func (s *Server) track(conn *playerConn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.session.GetState(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to read state")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "session unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.session.ListRounds(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to list rounds")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
