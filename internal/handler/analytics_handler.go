package handler

import (
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Navegação
// ============================================================

// pageViewHandler always answers 202; tracking never fails the caller.
func pageViewHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/analytics/pageview")
		defer span.End()

		var req domain.PageViewRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		visitor := service.Visitor{UserAgent: r.UserAgent(), IP: clientIP(r)}
		if sess := SessionFromContext(ctx); sess != nil {
			visitor.UserID = sess.UserID
		}

		writeJSON(w, http.StatusAccepted, analyticsSvc.TrackPageView(ctx, &req, visitor))
	}
}

// ============================================================
// Métricas de negócio
// ============================================================

func businessMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}
