package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

const requestIDHeader = "X-Request-ID"

// StateSource is the narrow poller contract required by the HTTP API.
type StateSource interface {
	State() model.PollState
	Refresh()
}

// Server re-exports the latest poll state and chart series over HTTP.
type Server struct {
	addr      string
	source    StateSource
	history   model.HistoryReader
	metrics   http.Handler
	log       zerolog.Logger
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler serves h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, source StateSource, history model.HistoryReader, opts ...Option) *Server {
	if addr == "" {
		addr = model.DefaultAPIAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:    addr,
		source:  source,
		history: history,
		log:     zerolog.Nop(),
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), gin.LoggerWithWriter(s.log, "/api/health"))

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/snapshot", s.handleSnapshot)
	r.POST("/api/refresh", s.handleRefresh)
	r.GET("/api/history/users", s.handleUserHistory)
	r.GET("/api/history/messages", s.handleMessageHistory)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = s.now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http server stopped unexpectedly")
		}
	}()
	s.log.Info().Str("addr", listener.Addr().String()).Msg("http api listening")
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	state := s.source.State()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      s.now().Sub(s.startTime).Round(time.Second).String(),
		"poll_status": state.Status.String(),
	})
}

type snapshotBody struct {
	TotalUsers    int64     `json:"total_users"`
	ActiveUsers   int64     `json:"active_users"`
	UserRetention float64   `json:"user_retention"`
	TotalGroups   int64     `json:"total_groups"`
	ActiveGroups  int64     `json:"active_groups"`
	TotalMessages int64     `json:"total_messages"`
	DailyMessages int64     `json:"daily_messages"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// handleSnapshot answers 200 with the snapshot when Ready, 202 while the
// first poll is loading and 503 when the last poll failed.
func (s *Server) handleSnapshot(c *gin.Context) {
	state := s.source.State()
	switch state.Status {
	case model.PollReady:
		snap := state.Snapshot
		c.JSON(http.StatusOK, gin.H{
			"status": state.Status.String(),
			"at":     state.At,
			"snapshot": snapshotBody{
				TotalUsers:    snap.TotalUsers,
				ActiveUsers:   snap.ActiveUsers,
				UserRetention: snap.UserRetention,
				TotalGroups:   snap.TotalGroups,
				ActiveGroups:  snap.ActiveGroups,
				TotalMessages: snap.TotalMessages,
				DailyMessages: snap.DailyMessages,
				FetchedAt:     snap.FetchedAt,
			},
		})
	case model.PollError:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": state.Status.String(),
			"at":     state.At,
			"error":  state.Err,
		})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"status": state.Status.String(),
			"at":     state.At,
		})
	}
}

func (s *Server) handleRefresh(c *gin.Context) {
	s.source.Refresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh requested"})
}

func (s *Server) handleUserHistory(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}
	start, end := model.DateWindow(days, s.now())
	series, err := s.history.GetMetricsByDateRange(c.Request.Context(), start, end)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("user history failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	points := make([]gin.H, 0, len(series.Metrics))
	for _, p := range series.Metrics {
		points = append(points, gin.H{
			"date":         model.FormatDate(p.Date),
			"active_users": p.ActiveUsers,
			"new_users":    p.NewUsers,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"days":       days,
		"start_date": model.FormatDate(start),
		"end_date":   model.FormatDate(end),
		"no_data":    series.Empty(),
		"metrics":    points,
	})
}

func (s *Server) handleMessageHistory(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}
	history, err := s.history.GetMessageHistory(c.Request.Context(), days)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("message history failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	series := history.Series()
	points := make([]gin.H, 0, len(series))
	for _, p := range series {
		points = append(points, gin.H{"date": p.Day, "count": p.Count})
	}
	c.JSON(http.StatusOK, gin.H{
		"days":    days,
		"no_data": len(series) == 0,
		"series":  points,
	})
}

func parseDays(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("days", strconv.Itoa(model.DefaultChartDays))
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
		return 0, false
	}
	return days, true
}
