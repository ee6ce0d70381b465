package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

func (h *Handler) GetPointsByURL(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPointsByURL")
	defer span.End()

	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeError(ctx, w, fmt.Errorf("%w: query parameter url is required", usecase.ErrInvalidInput))
		return
	}

	points, err := h.pointsService.ScoreURL(ctx, rawURL)
	if err != nil {
		h.logger.WarnContext(ctx, "score event url failed", "url", rawURL, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventPointsToDTO(ctx, points, h.pointsService.Table()))
}

func (h *Handler) GetEventPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventPoints")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	points, err := h.pointsService.ScoreEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "score event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventPointsToDTO(ctx, points, h.pointsService.Table()))
}

func (h *Handler) GetEventSource(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventSource")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	sourceURL, err := h.pointsService.SourceURL(eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolvedEventDTO{EventID: eventID, SourceURL: sourceURL})
}

func (h *Handler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveEvent")
	defer span.End()

	var req resolveEventRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	eventID, err := h.pointsService.ResolveEventID(ctx, req.URL)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sourceURL, err := h.pointsService.SourceURL(eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolvedEventDTO{EventID: eventID, SourceURL: sourceURL})
}

// ScoreBatch answers 200 even when some URLs fail; each item carries its
// own data or error.
func (h *Handler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreBatch")
	defer span.End()

	var req batchScoreRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.pointsService.ScoreBatch(ctx, req.URLs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchToDTO(ctx, items, h.pointsService.Table()))
}

func (h *Handler) AggregateRows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AggregateRows")
	defer span.End()

	var req aggregateRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	nations, err := h.pointsService.Aggregate(ctx, aggregateRowsFromRequest(req))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, aggregateDTO{
		TotalPoints: scoring.Total(nations),
		Nations:     nationsToDTO(nations),
		Chart:       chartToDTO(usecase.ChartBars(nations)),
	})
}

func (h *Handler) GetPointsTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPointsTable")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, pointsTableToDTO(h.pointsService.Table()))
}
