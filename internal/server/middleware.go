package server

import (
	"fmt"
	"net/http"

	"github.com/headlandsdaily/coast-events/internal/logger"
)

// cors allows only the configured origins. With no origins configured the
// API answers same-origin callers and sends no CORS headers at all.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.Server.Origins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// recoverer converts a panic into the standard error envelope instead of a
// dropped connection. The response carries no internal detail.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("handler panic", logger.Fields{
					"path":  r.URL.Path,
					"panic": fmt.Sprint(rec),
				}, nil)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
