package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/kscanner/internal/api/handlers"
	"github.com/wonny/kscanner/internal/metrics"
	"github.com/wonny/kscanner/pkg/logger"
)

// Routes groups the handlers mounted by NewRouter
type Routes struct {
	Scanner   *handlers.ScannerHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
	Events    http.Handler      // websocket hub, nil = disabled
	Metrics   *metrics.Registry // nil = /metrics disabled
	Limiter   Limiter
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(routes Routes, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	log = log.Component("http")

	r.HandleFunc("/health", routes.Health.Check).Methods(http.MethodGet)
	r.HandleFunc("/", routes.Dashboard.Index).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scores", routes.Scanner.GetScores).Methods(http.MethodGet)
	api.HandleFunc("/summary", routes.Scanner.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/top", routes.Scanner.GetTop).Methods(http.MethodGet)
	api.HandleFunc("/charts", routes.Scanner.GetCharts).Methods(http.MethodGet)

	// 배치 재생성/CSV는 비용이 커서 제한
	api.HandleFunc("/refresh", rateLimit(routes.Limiter, "refresh", log, routes.Scanner.Refresh)).Methods(http.MethodPost)
	api.HandleFunc("/export", rateLimit(routes.Limiter, "export", log, routes.Scanner.Export)).Methods(http.MethodGet)

	if routes.Events != nil {
		r.Handle("/ws/batches", routes.Events).Methods(http.MethodGet)
	}
	if routes.Metrics != nil {
		r.Handle("/metrics", routes.Metrics.Handler()).Methods(http.MethodGet)
		r.Use(metricsMiddleware(routes.Metrics))
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}
