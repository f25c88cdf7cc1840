// Package api exposes the REST surface for the positioning engine.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campus-geo/wifi-locate/internal/db"
	"github.com/campus-geo/wifi-locate/internal/locate"
	"github.com/campus-geo/wifi-locate/internal/monitoring"
	"github.com/campus-geo/wifi-locate/internal/ws"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	engine *locate.Engine
	db     *db.DB
	hub    *ws.Hub
}

func NewServer(engine *locate.Engine, database *db.DB, hub *ws.Hub) *Server {
	return &Server{
		engine: engine,
		db:     database,
		hub:    hub,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.showStatus)
	mux.HandleFunc("/api/position", s.showPosition)
	mux.HandleFunc("/api/aps", s.listAPs)
	mux.HandleFunc("/api/locate", s.locateFrame)
	mux.HandleFunc("/api/samples", s.handleSamples)
	mux.HandleFunc("/api/report", s.showReport)
	return mux
}
