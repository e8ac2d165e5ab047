package httpserver

import (
	"net/http"
	"time"

	"dues-app-go/internal/config"
	"dues-app-go/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
)

// New builds the API server. Websocket clients reset the read deadline after
// the upgrade.
func New(cfg config.Config, handler http.Handler, log logger.Logger) *http.Server {
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          logger.ErrorLog(log.With("component", "http")),
	}
	if cfg.RequestTimeout > 0 {
		server.ReadTimeout = cfg.RequestTimeout
	}
	return server
}
