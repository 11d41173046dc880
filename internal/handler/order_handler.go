package handler

import (
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"
	"github.com/boddenberg/smartpresence-bfa-go/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Pedidos
// ============================================================

func createOrderHandler(orderSvc *service.OrderService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/orders")
		defer span.End()

		var req domain.GenericOrderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := orderSvc.SubmitGeneric(ctx, SessionFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func createCreationOrderHandler(orderSvc *service.OrderService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/orders/criacao")
		defer span.End()

		var req domain.CreationOrderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := orderSvc.SubmitCreation(ctx, SessionFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func createManagementOrderHandler(orderSvc *service.OrderService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/orders/gestao")
		defer span.End()

		var req domain.ManagementOrderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := orderSvc.SubmitManagement(ctx, SessionFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func orderStatusesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.Statuses())
	}
}

func orderConfirmationHandler(confirmSvc *service.ConfirmationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/orders/{orderId}/confirmation")
		defer span.End()

		conf, err := confirmSvc.Get(ctx, SessionFromContext(ctx), chi.URLParam(r, "orderId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, conf)
	}
}

// validateFormHandler runs a form's rules without storing anything.
func validateFormHandler(v *validation.Validator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/forms/{form}/validate")
		defer span.End()

		name := chi.URLParam(r, "form")
		form, ok := validation.NewForm(name)
		if !ok {
			writeError(w, http.StatusNotFound, "Formulário desconhecido")
			return
		}
		if !decodeJSON(w, r, form) {
			return
		}

		writeJSON(w, http.StatusOK, v.Validate(form))
	}
}
