package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var analyticsTracer = otel.Tracer("service/analytics")

var errAnalyticsSaturated = errors.New("analytics: too many concurrent writes")

// Visitor describes who made a page view, as seen by the HTTP layer.
type Visitor struct {
	UserID    string
	UserAgent string
	IP        string
}

// AnalyticsService records page views and aggregates them. Recording is
// best effort and never fails the caller.
type AnalyticsService struct {
	store    port.AnalyticsStore
	bulkhead *resilience.Bulkhead
	timeout  time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(store port.AnalyticsStore, bulkhead *resilience.Bulkhead, timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, bulkhead: bulkhead, timeout: timeout, metrics: metrics, logger: logger}
}

// TrackPageView stores one navigation event. A missing session id is
// generated and handed back so the client can keep it.
func (s *AnalyticsService) TrackPageView(ctx context.Context, req *domain.PageViewRequest, v Visitor) *domain.PageViewResponse {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.TrackPageView")
	defer span.End()

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	path := strings.TrimSpace(req.PagePath)
	if path == "" {
		path = "/"
	}
	span.SetAttributes(attribute.String("page.path", path))

	err := s.insert(ctx, &domain.NavigationLog{
		PagePath:  path,
		PageTitle: domain.OptionalString(req.PageTitle),
		Referrer:  domain.OptionalString(req.Referrer),
		UserAgent: domain.OptionalString(v.UserAgent),
		SessionID: &sessionID,
		UserID:    domain.OptionalString(v.UserID),
		IPAddress: domain.OptionalString(v.IP),
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrPageView("failed")
		s.logger.Warn("page view not recorded", zap.String("path", path), zap.Error(err))
		return &domain.PageViewResponse{SessionID: sessionID}
	}

	s.metrics.IncrPageView("recorded")
	return &domain.PageViewResponse{SessionID: sessionID, Recorded: true}
}

func (s *AnalyticsService) insert(ctx context.Context, l *domain.NavigationLog) error {
	if !s.bulkhead.TryAcquire() {
		return errAnalyticsSaturated
	}
	defer s.bulkhead.Release()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	return s.store.InsertNavigationLog(ctx, l)
}

// TopPages ranks visited paths by count, most visited first.
func (s *AnalyticsService) TopPages(ctx context.Context, limit int) ([]domain.PageVisits, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.TopPages")
	defer span.End()

	paths, err := s.store.ListPagePaths(ctx)
	if err != nil {
		return nil, err
	}
	return rankPages(paths, limit), nil
}

func rankPages(paths []string, limit int) []domain.PageVisits {
	counts := make(map[string]int)
	for _, p := range paths {
		counts[p]++
	}

	out := make([]domain.PageVisits, 0, len(counts))
	for p, n := range counts {
		out = append(out, domain.PageVisits{Path: p, Label: domain.PageLabel(p), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
