package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnalytics(store *fakeStore, slots int) (*service.AnalyticsService, *observability.Metrics) {
	m := observability.NewMetrics()
	return service.NewAnalyticsService(store, resilience.NewBulkhead(slots), time.Second, m, zap.NewNop()), m
}

func TestTrackPageView_GeneratesSession(t *testing.T) {
	store := &fakeStore{}
	svc, m := newAnalytics(store, 2)

	resp := svc.TrackPageView(context.Background(), &domain.PageViewRequest{PagePath: "/planos", PageTitle: "Planos"},
		service.Visitor{UserAgent: "Mozilla/5.0", IP: "10.0.0.1"})

	require.True(t, resp.Recorded)
	_, err := uuid.Parse(resp.SessionID)
	require.NoError(t, err)

	require.Len(t, store.navLogs, 1)
	got := store.navLogs[0]
	assert.Equal(t, "/planos", got.PagePath)
	assert.Equal(t, resp.SessionID, domain.StringOrEmpty(got.SessionID))
	assert.Nil(t, got.UserID)
	assert.Nil(t, got.Referrer)
	assert.Equal(t, "10.0.0.1", domain.StringOrEmpty(got.IPAddress))
	assert.Equal(t, 1.0, m.Snapshot().PageViews)
}

func TestTrackPageView_KeepsSessionAndUser(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newAnalytics(store, 2)

	resp := svc.TrackPageView(context.Background(), &domain.PageViewRequest{PagePath: "/", SessionID: "sess-1"}, service.Visitor{UserID: "u1"})

	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "u1", domain.StringOrEmpty(store.navLogs[0].UserID))
}

func TestTrackPageView_FailureIsSwallowed(t *testing.T) {
	svc, m := newAnalytics(&fakeStore{navErr: errBoom}, 2)

	resp := svc.TrackPageView(context.Background(), &domain.PageViewRequest{PagePath: "/sobre", SessionID: "s"}, service.Visitor{})

	assert.False(t, resp.Recorded)
	assert.Equal(t, "s", resp.SessionID)
	assert.Equal(t, 1.0, m.Snapshot().PageViewFailures)
}

func TestTrackPageView_SurvivesCancelledRequest(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newAnalytics(store, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := svc.TrackPageView(ctx, &domain.PageViewRequest{PagePath: "/"}, service.Visitor{})
	assert.True(t, resp.Recorded)
}

func TestTopPages(t *testing.T) {
	store := &fakeStore{}
	for _, p := range []string{"/", "/planos", "/", "/servicos", "/planos", "/", "/sobre", "/login", "/x"} {
		store.navLogs = append(store.navLogs, domain.NavigationLog{PagePath: p})
	}
	svc, _ := newAnalytics(store, 1)

	got, err := svc.TopPages(context.Background(), domain.TopPagesLimit)
	require.NoError(t, err)
	assert.Equal(t, []domain.PageVisits{
		{Path: "/", Label: "Página Inicial", Count: 3},
		{Path: "/planos", Label: "Planos", Count: 2},
		{Path: "/login", Label: "Login", Count: 1},
		{Path: "/servicos", Label: "Serviços", Count: 1},
	}, got)
}
