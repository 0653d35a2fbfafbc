package http

import (
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
)

type RouteRegistrar interface {
	Register(mux *http.ServeMux)
}

// NewRouter mounts the handlers behind logging, recovery and auth
func NewRouter(jwtSecret string, logger logger.Logger, handlers ...RouteRegistrar) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondOK(w, http.StatusOK, "ok", nil)
	})
	for _, h := range handlers {
		h.Register(mux)
	}

	return Chain(mux,
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
		AuthMiddleware(jwtSecret, logger),
	)
}
