package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var confirmationTracer = otel.Tracer("service/confirmation")

// PaymentConfig holds the Paypay beneficiary and the admin WhatsApp number
// the confirmation page links to.
type PaymentConfig struct {
	Beneficiary   string
	Number        string
	AdminWhatsApp string
}

// ConfirmationService builds the post-submission confirmation view.
type ConfirmationService struct {
	store   port.OrderStore
	catalog *CatalogService
	payment PaymentConfig
	logger  *zap.Logger
}

// NewConfirmationService creates a new confirmation service.
func NewConfirmationService(store port.OrderStore, catalog *CatalogService, payment PaymentConfig, logger *zap.Logger) *ConfirmationService {
	return &ConfirmationService{store: store, catalog: catalog, payment: payment, logger: logger}
}

// Get returns the confirmation of orderID. Only the owner or an admin can
// see it; anyone else gets the same 404 as for a missing order.
func (s *ConfirmationService) Get(ctx context.Context, sess *domain.Session, orderID string) (*domain.OrderConfirmation, error) {
	ctx, span := confirmationTracer.Start(ctx, "ConfirmationService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	notFound := &domain.ErrNotFound{Resource: "order", ID: orderID, Message: "Pedido não encontrado"}
	if orderID == "" {
		return nil, notFound
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || !canSee(sess, order.UserID) {
		return nil, notFound
	}

	pkg, plan := s.lookup(ctx, order)

	out := &domain.OrderConfirmation{
		OrderID:      order.ID,
		OrderNumber:  orDefault(order.OrderNumber, "N/A"),
		BusinessName: order.BusinessName,
		Status:       order.Status,
		StatusLabel:  order.Status.Label(),
		PackageName:  "Não selecionado",
		ContractURL:  "/contrato?pedido=" + url.QueryEscape(order.ID),
	}
	if pkg != nil {
		out.PackageName = pkg.Name
		out.Total += pkg.Price
	}
	if plan != nil {
		out.PlanName = plan.Name
		out.Total += plan.PriceMonthly
	}
	out.TotalDisplay = formatMT(out.Total)

	out.Payment = domain.PaymentInstructions{
		Method:        "paypay",
		Beneficiary:   s.payment.Beneficiary,
		Number:        s.payment.Number,
		NumberDisplay: groupPhone(s.payment.Number),
		Amount:        out.Total,
		AmountDisplay: out.TotalDisplay,
		Reference:     out.OrderNumber,
	}
	out.WhatsAppURL = s.whatsAppURL(out)

	return out, nil
}

func (s *ConfirmationService) lookup(ctx context.Context, order *domain.Order) (*domain.Package, *domain.ManagementPlan) {
	pkg, err := s.catalog.ResolvePackage(ctx, domain.StringOrEmpty(order.PackageID))
	if err != nil {
		s.logger.Warn("confirmation: package lookup failed", zap.String("order_id", order.ID), zap.Error(err))
		pkg = nil
	}
	plan, err := s.catalog.ResolvePlan(ctx, domain.StringOrEmpty(order.PlanID))
	if err != nil {
		s.logger.Warn("confirmation: plan lookup failed", zap.String("order_id", order.ID), zap.Error(err))
		plan = nil
	}
	return pkg, plan
}

func (s *ConfirmationService) whatsAppURL(c *domain.OrderConfirmation) string {
	text := "Olá! Acabei de fazer um pedido na SmartPresence.\n\n" +
		fmt.Sprintf("📋 Número do Pedido: %s\n", c.OrderNumber) +
		fmt.Sprintf("🏢 Negócio: %s\n", orDefault(c.BusinessName, "N/A")) +
		fmt.Sprintf("📦 Pacote: %s\n", c.PackageName) +
		fmt.Sprintf("💰 Valor: %s MT\n\n", c.TotalDisplay) +
		"Gostaria de saber os próximos passos."
	return "https://wa.me/" + s.payment.AdminWhatsApp + "?text=" + url.QueryEscape(text)
}

// canSee mirrors the row-level policy: owners see their rows, admins see
// every row.
func canSee(sess *domain.Session, ownerID string) bool {
	if sess == nil {
		return false
	}
	return sess.UserID == ownerID || sess.IsAdmin()
}

var ptPrinter = message.NewPrinter(language.Portuguese)

// formatMT formats an amount with Portuguese digit grouping, e.g. 3.499.
func formatMT(v float64) string {
	return ptPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// groupPhone spaces a nine-digit Mozambican number as 84 000 0000.
func groupPhone(n string) string {
	digits := strings.ReplaceAll(n, " ", "")
	if len(digits) != 9 {
		return n
	}
	return digits[:2] + " " + digits[2:5] + " " + digits[5:]
}
