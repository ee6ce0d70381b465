package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nation-points/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, manager *metrics.Manager, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if manager != nil {
		mux.Handle("GET /metrics", manager.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPointsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/points", handler.GetPointsByURL)
	mux.HandleFunc("GET /v1/points/table", handler.GetPointsTable)
	mux.HandleFunc("POST /v1/points/batch", handler.ScoreBatch)
	mux.HandleFunc("POST /v1/points/aggregate", handler.AggregateRows)
	mux.HandleFunc("GET /v1/events/{eventID}/points", handler.GetEventPoints)
	mux.HandleFunc("GET /v1/events/{eventID}/source", handler.GetEventSource)
	mux.HandleFunc("POST /v1/events/resolve", handler.ResolveEvent)
}

func registerDocumentRoutes(mux *http.ServeMux, handler *Handler) {
	// Raw feed documents, e.g. saved with curl, scored without calling the feed.
	mux.HandleFunc("POST /v1/documents/score", handler.ScoreDocument)
	mux.HandleFunc("POST /v1/documents/discover", handler.DiscoverDocument)
}
