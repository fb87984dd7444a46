package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kbvcri/pkg/platform/httputil"
)

// Registerer mounts a handler's routes on a chi router.
type Registerer interface {
	Register(r chi.Router)
}

// NewRouter builds the HTTP router with request middleware, the application
// handlers, and the operational endpoints.
func NewRouter(logger *slog.Logger, handlers ...Registerer) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger))

	for _, h := range handlers {
		h.Register(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
