package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/platform/resilience"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

const (
	maxRequestBodyBytes  = 1 << 20
	maxDocumentBodyBytes = 8 << 20
)

var requestDecoder = sonic.Config{DisallowUnknownFields: true}.Froze()

// FeedStatus exposes the feed client's circuit breaker to health checks.
type FeedStatus interface {
	CircuitState() resilience.CircuitState
}

type Handler struct {
	pointsService *usecase.PointsService
	feed          FeedStatus
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(pointsService *usecase.PointsService, feed FeedStatus, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		pointsService: pointsService,
		feed:          feed,
		logger:        logger,
		validator:     validator.New(),
	}
}

// Healthz stays 200 while the feed circuit is open; the body says degraded.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	state := resilience.CircuitStateClosed
	if h.feed != nil {
		state = h.feed.CircuitState()
	}
	status := "ok"
	if state == resilience.CircuitStateOpen {
		status = "degraded"
	}

	writeSuccess(ctx, w, http.StatusOK, healthDTO{Status: status, FeedCircuit: string(state)})
}

func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := requestDecoder.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %w", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func readDocumentBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %w", usecase.ErrInvalidInput, err)
	}
	return raw, nil
}
