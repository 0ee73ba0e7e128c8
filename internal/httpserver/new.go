package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	tgDelivery "reminder-assistant/internal/assistant/delivery/telegram"
	"reminder-assistant/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Observability
	gatherer prometheus.Gatherer
	status   StatusSource
	now      func() time.Time

	// Assistant domain
	telegramHandler tgDelivery.Handler
}

// StatusSource reports scheduler liveness for /status.
type StatusSource interface {
	LastTick() (time.Time, bool)
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Gatherer backs /metrics; nil skips the route.
	Gatherer prometheus.Gatherer
	// Status is the in-process scheduler, if any.
	Status StatusSource
	// Now defaults to time.Now.
	Now func() time.Time

	TelegramHandler tgDelivery.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		gatherer:        cfg.Gatherer,
		status:          cfg.Status,
		now:             cfg.Now,
		telegramHandler: cfg.TelegramHandler,
	}

	if srv.now == nil {
		srv.now = time.Now
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
