// Package httpserver builds the HTTP server and its operational endpoints.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the site server. WriteTimeout leaves room for the application
// fan-out, whose slowest sink is bounded well below it.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}
