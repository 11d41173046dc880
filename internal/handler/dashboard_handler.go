package handler

import (
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Área do cliente
// ============================================================

func clientDashboardHandler(dashSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/me/dashboard")
		defer span.End()

		dash, err := dashSvc.Client(ctx, SessionFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}

// ============================================================
// Administração
// ============================================================

func adminDashboardHandler(dashSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/dashboard")
		defer span.End()

		q := domain.AdminDashboardQuery{
			Search:       r.URL.Query().Get("search"),
			StatusFilter: r.URL.Query().Get("status"),
		}
		dash, err := dashSvc.Admin(ctx, q)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}

func exportUsersHandler(dashSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/users/export")
		defer span.End()

		filename, body, err := dashSvc.ExportUsers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeAttachment(w, filename, "text/csv; charset=utf-8", body)
	}
}

func deleteUserHandler(dashSvc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/users/{userId}")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if err := dashSvc.DeleteUser(ctx, userID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Utilizador removido", ID: userID})
	}
}

// ============================================================
// Políticas
// ============================================================

func policyHandler(policySvc *service.PolicyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := policySvc.Get(chi.URLParam(r, "tipo"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
