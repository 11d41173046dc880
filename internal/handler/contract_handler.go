package handler

import (
	"net/http"
	"strconv"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Contratos
// ============================================================

func getContractHandler(contractSvc *service.ContractService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/contracts")
		defer span.End()

		q := domain.ContractLookup{
			ContractID: r.URL.Query().Get("id"),
			OrderID:    r.URL.Query().Get("pedido"),
		}
		c, err := contractSvc.Get(ctx, SessionFromContext(ctx), q)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func exportContractHandler(contractSvc *service.ContractService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/contracts/{contractId}/export")
		defer span.End()

		doc, err := contractSvc.Export(ctx, SessionFromContext(ctx), chi.URLParam(r, "contractId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeAttachment(w, doc.Filename, doc.ContentType, doc.Body)
	}
}

// writeAttachment sends body as a download named filename.
func writeAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
