package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/nation-points/internal/domain/event"
	"github.com/riskibarqy/nation-points/internal/domain/raceresult"
	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EventFetcher loads the raw result document of one event from the feed.
type EventFetcher interface {
	FetchEvent(ctx context.Context, eventID string) (jsonvalue.Value, error)
	EventURL(eventID string) string
}

// ScoreRecorder receives scoring metrics; *metrics.Manager implements it.
type ScoreRecorder interface {
	ObserveEventScored(outcome string)
	AddSkippedEntries(reason string, count int)
	ObserveBatch(size int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveEventScored(string)     {}
func (noopRecorder) AddSkippedEntries(string, int) {}
func (noopRecorder) ObserveBatch(int)              {}

// EventPoints is the scored outcome of one race.
type EventPoints struct {
	EventID     string
	SourceURL   string
	Results     []raceresult.Row
	Nations     []scoring.NationTotal
	Skipped     map[raceresult.SkipReason]int
	TotalPoints int
}

type PointsServiceConfig struct {
	BatchWorkers   int
	MaxBatchEvents int
}

type PointsService struct {
	fetcher  EventFetcher
	table    scoring.PointsTable
	logger   *logging.Logger
	recorder ScoreRecorder
	cfg      PointsServiceConfig
}

func NewPointsService(
	fetcher EventFetcher,
	table scoring.PointsTable,
	logger *logging.Logger,
	recorder ScoreRecorder,
	cfg PointsServiceConfig,
) *PointsService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = defaultBatchWorkers
	}
	if cfg.MaxBatchEvents < 1 {
		cfg.MaxBatchEvents = defaultMaxBatchEvents
	}
	return &PointsService{
		fetcher:  fetcher,
		table:    table,
		logger:   logger,
		recorder: recorder,
		cfg:      cfg,
	}
}

// Table is the points table used for scoring.
func (s *PointsService) Table() scoring.PointsTable {
	return s.table
}

// MaxBatchEvents is the largest accepted ScoreBatch input.
func (s *PointsService) MaxBatchEvents() int {
	return s.cfg.MaxBatchEvents
}

func (s *PointsService) ResolveEventID(ctx context.Context, rawURL string) (string, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PointsService.ResolveEventID")
	defer span.End()

	eventID, err := event.ExtractID(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return eventID, nil
}

// SourceURL is the feed address of an event.
func (s *PointsService) SourceURL(eventID string) (string, error) {
	eventID = strings.TrimSpace(eventID)
	if !event.IsID(eventID) {
		return "", fmt.Errorf("%w: event id must be decimal digits, got %q", ErrInvalidInput, eventID)
	}
	return s.fetcher.EventURL(eventID), nil
}

func (s *PointsService) ScoreURL(ctx context.Context, rawURL string) (EventPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ScoreURL")
	defer span.End()

	eventID, err := s.ResolveEventID(ctx, rawURL)
	if err != nil {
		s.recorder.ObserveEventScored(metrics.OutcomeInvalidURL)
		span.SetStatus(codes.Error, "invalid url")
		return EventPoints{}, err
	}
	return s.ScoreEvent(ctx, eventID)
}

func (s *PointsService) ScoreEvent(ctx context.Context, eventID string) (EventPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ScoreEvent", attribute.String("event.id", eventID))
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if !event.IsID(eventID) {
		return EventPoints{}, fmt.Errorf("%w: event id must be decimal digits, got %q", ErrInvalidInput, eventID)
	}

	doc, err := s.fetcher.FetchEvent(ctx, eventID)
	if err != nil {
		s.recorder.ObserveEventScored(fetchOutcome(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch event")
		s.logger.WarnContext(ctx, "fetch event failed", "event_id", eventID, "error", err)
		return EventPoints{}, fmt.Errorf("fetch event %s: %w", eventID, err)
	}

	out, err := s.ScoreDocument(ctx, eventID, doc)
	if err != nil {
		return EventPoints{}, err
	}
	out.SourceURL = s.fetcher.EventURL(eventID)
	return out, nil
}

// ScoreDocument scores an already fetched feed document. eventID is optional
// and only used for labelling.
func (s *PointsService) ScoreDocument(ctx context.Context, eventID string, doc jsonvalue.Value) (EventPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ScoreDocument")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID != "" && !event.IsID(eventID) {
		return EventPoints{}, fmt.Errorf("%w: event id must be decimal digits, got %q", ErrInvalidInput, eventID)
	}

	rows, summary := raceresult.NormalizeWithSummary(doc)
	for reason, count := range summary.Skipped {
		s.recorder.AddSkippedEntries(string(reason), count)
	}

	if len(rows) == 0 {
		candidates := len(raceresult.FindResultItems(doc))
		s.recorder.ObserveEventScored(metrics.OutcomeEmpty)
		span.SetStatus(codes.Error, "empty result set")
		s.logger.WarnContext(ctx, "feed document has no scoring rows",
			"event_id", eventID,
			"entries", summary.Entries,
			"candidates", candidates,
		)
		return EventPoints{}, &EmptyResultSetError{EventID: eventID, Candidates: candidates}
	}

	nations := scoring.Aggregate(rows, s.table)
	s.recorder.ObserveEventScored(metrics.OutcomeOK)
	s.logger.DebugContext(ctx, "scored event",
		"event_id", eventID,
		"rows", len(rows),
		"nations", len(nations),
	)

	return EventPoints{
		EventID:     eventID,
		Results:     rows,
		Nations:     nations,
		Skipped:     summary.Skipped,
		TotalPoints: scoring.Total(nations),
	}, nil
}

// Discover lists result-like objects anywhere in doc.
func (s *PointsService) Discover(ctx context.Context, doc jsonvalue.Value) []jsonvalue.Object {
	_, span := startUsecaseSpan(ctx, "usecase.PointsService.Discover")
	defer span.End()

	items := raceresult.FindResultItems(doc)
	span.SetAttributes(attribute.Int("discover.count", len(items)))
	return items
}

// Aggregate totals caller-supplied rows. Every row must be inside the
// scoring window and carry a nation.
func (s *PointsService) Aggregate(ctx context.Context, rows []raceresult.Row) ([]scoring.NationTotal, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PointsService.Aggregate")
	defer span.End()

	for idx, row := range rows {
		if !raceresult.InScoringWindow(row.Rank) {
			return nil, fmt.Errorf("%w: rows[%d].rank must be between %d and %d", ErrInvalidInput, idx, raceresult.MinScoringRank, raceresult.MaxScoringRank)
		}
		if row.Nation == "" {
			return nil, fmt.Errorf("%w: rows[%d].nation is required", ErrInvalidInput, idx)
		}
	}
	return scoring.Aggregate(rows, s.table), nil
}

func fetchOutcome(err error) string {
	switch {
	case errors.Is(err, ErrDependencyUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, ErrTransportFailure):
		return metrics.OutcomeTransport
	case errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeInvalidURL
	default:
		return metrics.OutcomeError
	}
}
