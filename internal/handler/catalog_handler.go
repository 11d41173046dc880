package handler

import (
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Catálogo
// ============================================================

func listPackagesHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/catalog/packages")
		defer span.End()

		writeJSON(w, http.StatusOK, catalogSvc.Packages(ctx, r.URL.Query().Get("pacote")))
	}
}

func listPlansHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/catalog/plans")
		defer span.End()

		writeJSON(w, http.StatusOK, catalogSvc.Plans(ctx, r.URL.Query().Get("plano")))
	}
}

func orderFormCatalogHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/catalog/order-form")
		defer span.End()

		q := r.URL.Query()
		writeJSON(w, http.StatusOK, catalogSvc.OrderForm(ctx, q.Get("pacote"), q.Get("plano")))
	}
}
