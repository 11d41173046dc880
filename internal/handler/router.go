package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"
	"github.com/boddenberg/smartpresence-bfa-go/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles what the router dispatches to.
type Services struct {
	Auth         *service.AuthService
	Catalog      *service.CatalogService
	Orders       *service.OrderService
	Confirmation *service.ConfirmationService
	Contracts    *service.ContractService
	Analytics    *service.AnalyticsService
	Dashboard    *service.DashboardService
	Policies     *service.PolicyService
	Validator    *validation.Validator
	Store        Pinger
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the SmartPresence SPA.
func NewRouter(svc Services, corsOrigins []string, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Store))
	r.Get("/readyz", readyzHandler(svc.Store, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	optionalAuth := OptionalAuth(svc.Auth, logger)
	requireAuth := RequireAuth(svc.Auth, logger)

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Catálogo
		// =============================================
		r.Get("/catalog/packages", listPackagesHandler(svc.Catalog, logger))
		r.Get("/catalog/plans", listPlansHandler(svc.Catalog, logger))
		r.Get("/catalog/order-form", orderFormCatalogHandler(svc.Catalog, logger))

		// =============================================
		// 2. Pedidos
		// Submissions check terms and signature before the session,
		// so they only attach it.
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Post("/orders", createOrderHandler(svc.Orders, logger))
			r.Post("/orders/criacao", createCreationOrderHandler(svc.Orders, logger))
			r.Post("/orders/gestao", createManagementOrderHandler(svc.Orders, logger))
			r.Post("/analytics/pageview", pageViewHandler(svc.Analytics, logger))
		})
		r.Get("/orders/statuses", orderStatusesHandler())
		r.Post("/forms/{form}/validate", validateFormHandler(svc.Validator, logger))

		// =============================================
		// 3. Autenticação
		// =============================================
		r.Post("/auth/register", authRegisterHandler(svc.Auth, logger))
		r.Post("/auth/login", authLoginHandler(svc.Auth, logger))

		// =============================================
		// 4. Políticas & métricas
		// =============================================
		r.Get("/policies/{tipo}", policyHandler(svc.Policies, logger))
		r.Get("/metrics/business", businessMetricsHandler(metrics, logger))

		// =============================================
		// 5. Área autenticada
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/session", authSessionHandler(svc.Auth, logger))
			r.Get("/orders/{orderId}/confirmation", orderConfirmationHandler(svc.Confirmation, logger))
			r.Get("/contracts", getContractHandler(svc.Contracts, logger))
			r.Get("/contracts/{contractId}/export", exportContractHandler(svc.Contracts, logger))
			r.Get("/me/dashboard", clientDashboardHandler(svc.Dashboard, logger))

			// =============================================
			// 6. Administração
			// =============================================
			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin(logger))
				r.Get("/dashboard", adminDashboardHandler(svc.Dashboard, logger))
				r.Get("/users/export", exportUsersHandler(svc.Dashboard, logger))
				r.Delete("/users/{userId}", deleteUserHandler(svc.Dashboard, logger))
			})
		})
	})

	return r
}

// ============================================================
// Operational handlers
// ============================================================

// healthzHandler reports liveness. A failing store degrades the status
// but never fails the probe.
func healthzHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: domain.HealthHealthy, LastChecked: now},
		}

		if store != nil {
			start := time.Now()
			err := store.Ping(r.Context())
			sh := domain.ServiceHealth{
				Name:        "store",
				Status:      domain.HealthHealthy,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			}
			if err != nil {
				sh.Status = domain.HealthDegraded
				sh.Error = err.Error()
			}
			services = append(services, sh)
		}

		writeJSON(w, http.StatusOK, domain.NewHealthStatus(services...))
	}
}

// readyzHandler answers 503 while the store is unreachable.
func readyzHandler(store Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
