package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

func (h *Handler) ScoreDocument(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreDocument")
	defer span.End()

	raw, err := readDocumentBody(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON document: %v", usecase.ErrInvalidInput, err))
		return
	}

	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	points, err := h.pointsService.ScoreDocument(ctx, eventID, doc)
	if err != nil {
		h.logger.InfoContext(ctx, "score document failed", "event_id", eventID, "bytes", len(raw), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventPointsToDTO(ctx, points, h.pointsService.Table()))
}

// DiscoverDocument lists every object that looks like a result entry,
// members in document order.
func (h *Handler) DiscoverDocument(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscoverDocument")
	defer span.End()

	raw, err := readDocumentBody(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON document: %v", usecase.ErrInvalidInput, err))
		return
	}

	items := h.pointsService.Discover(ctx, doc)
	if items == nil {
		items = []jsonvalue.Object{}
	}
	writeSuccess(ctx, w, http.StatusOK, discoverDTO{Count: len(items), Items: items})
}
