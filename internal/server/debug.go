package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewDebugHandler returns the HTTP handler for the optional debug
// listener: a health probe and live connection/session counters.
//
// Routes:
//
//	GET /healthz → 200 ok
//	GET /stats   → JSON counters
func NewDebugHandler(srv *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int64{
			"connections":     srv.ActiveConnections(),
			"active_sessions": int64(srv.Registry().Active()),
		})
	})

	return r
}

// ServeDebug starts the debug listener on addr. It runs in its own
// goroutine and only logs on failure; the vault server does not depend
// on it.
func ServeDebug(addr string, srv *Server, log *zap.Logger) {
	go func() {
		log.Info("debug endpoint listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, NewDebugHandler(srv)); err != nil {
			log.Error("debug endpoint failed", zap.Error(err))
		}
	}()
}
