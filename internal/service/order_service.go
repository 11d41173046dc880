package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"
	"github.com/boddenberg/smartpresence-bfa-go/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var orderTracer = otel.Tracer("service/order")

const submittedTitle = "Pedido enviado com sucesso!"

// Precondition failures, checked in this order before anything else.
var (
	errTermsNotAccepted = &domain.ErrPrecondition{
		Title:   "Termos não aceites",
		Message: "Por favor, aceite os termos e condições para continuar.",
	}
	errSignatureMissing = &domain.ErrPrecondition{
		Title:   "Assinatura necessária",
		Message: "Por favor, digite o seu nome completo como assinatura digital.",
	}
	errPackageMissing = &domain.ErrPrecondition{
		Title:   "Pacote não selecionado",
		Message: "Por favor, selecione um pacote.",
	}
	errPlanMissing = &domain.ErrPrecondition{
		Title:   "Plano não selecionado",
		Message: "Por favor, selecione um plano de gestão.",
	}
	errLoginRequired = &domain.ErrUnauthorized{
		Message:    "Por favor, faça login para submeter o pedido.",
		RedirectTo: "/login",
	}
)

// OrderService runs the order → contract submission flow. It is the only
// writer of contracts.
type OrderService struct {
	store     port.Store
	catalog   *CatalogService
	validator *validation.Validator
	metrics   *observability.Metrics
	logger    *zap.Logger

	now    func() time.Time
	suffix func() string
}

// NewOrderService creates a new order service.
func NewOrderService(store port.Store, catalog *CatalogService, v *validation.Validator, metrics *observability.Metrics, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		catalog:   catalog,
		validator: v,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		suffix:    randomSuffix,
	}
}

// draft is a submission ready to be written: the order columns, the
// contract contact snapshot, and how to describe the purchased service.
type draft struct {
	form      string
	order     domain.NewOrder
	contract  domain.NewContract
	describe  func(pkg *domain.Package, plan *domain.ManagementPlan) string
	onSuccess func(orderNumber string) string
}

// SubmitCreation handles the site-creation form.
func (s *OrderService) SubmitCreation(ctx context.Context, sess *domain.Session, req *domain.CreationOrderRequest) (*domain.SubmissionResult, error) {
	ctx, span := orderTracer.Start(ctx, "OrderService.SubmitCreation")
	defer span.End()

	if err := s.precheck(validation.FormPedidoCriacao, req.Submission, req.PackageID, errPackageMissing, sess); err != nil {
		return nil, err
	}
	if err := s.validate(validation.FormPedidoCriacao, req); err != nil {
		return nil, err
	}

	projectType := otherOr(req.ProjectType, req.ProjectTypeOther)
	objective := otherOr(req.ProjectObjective, req.ProjectObjectiveOther)
	hasLogo := "Não"
	if req.HasLogo == "sim" {
		hasLogo = "Sim"
	}

	description := strings.Join([]string{
		"Tipo de Projeto: " + projectType,
		"Objetivo: " + objective,
		"Estrutura: " + joinChoices(req.StructurePages, req.StructureOther),
		"Tem Logotipo: " + hasLogo,
		"Redes Sociais: " + orDefault(req.SocialLinks, "Não informado"),
		"Observações: " + orDefault(req.Observations, "Nenhuma"),
	}, "\n")

	return s.submit(ctx, sess, draft{
		form: validation.FormPedidoCriacao,
		order: domain.NewOrder{
			BusinessName: strings.TrimSpace(req.BusinessName),
			BusinessType: projectType,
			PackageID:    req.PackageID,
			Description:  description,
			Preferences:  fmt.Sprintf("Localização: %s\nNUIT: %s", strings.TrimSpace(req.Location), orDefault(req.NUIT, "N/A")),
		},
		contract: domain.NewContract{
			ClientName:       strings.TrimSpace(req.FullName),
			ClientEmail:      strings.TrimSpace(req.Email),
			ClientPhone:      orDefault(req.WhatsApp, strings.TrimSpace(req.Phone)),
			DigitalSignature: strings.TrimSpace(req.DigitalSignature),
		},
		describe: func(pkg *domain.Package, _ *domain.ManagementPlan) string {
			name := "N/A"
			if pkg != nil {
				name = pkg.Name
			}
			return fmt.Sprintf("Criação de %s - Pacote %s", projectType, name)
		},
		onSuccess: paymentMessage,
	})
}

// SubmitManagement handles the management/maintenance form.
func (s *OrderService) SubmitManagement(ctx context.Context, sess *domain.Session, req *domain.ManagementOrderRequest) (*domain.SubmissionResult, error) {
	ctx, span := orderTracer.Start(ctx, "OrderService.SubmitManagement")
	defer span.End()

	if err := s.precheck(validation.FormPedidoGestao, req.Submission, req.PlanID, errPlanMissing, sess); err != nil {
		return nil, err
	}
	if err := s.validate(validation.FormPedidoGestao, req); err != nil {
		return nil, err
	}

	frequency := strings.TrimSpace(req.Frequency)
	description := strings.Join([]string{
		"Tipo de Gestão: " + joinChoices(req.ManagementTypes, req.ManagementOther),
		"Frequência: " + frequency,
		"Link do Site: " + orDefault(req.SiteLink, "Não informado"),
		"Tipo de Negócio: " + strings.TrimSpace(req.BusinessType),
		"Observações: " + orDefault(req.Observations, "Nenhuma"),
	}, "\n")

	return s.submit(ctx, sess, draft{
		form: validation.FormPedidoGestao,
		order: domain.NewOrder{
			BusinessName: strings.TrimSpace(req.SiteName),
			BusinessType: strings.TrimSpace(req.BusinessType),
			PlanID:       req.PlanID,
			Description:  description,
			Preferences:  "Link atual: " + orDefault(req.SiteLink, "N/A"),
		},
		contract: domain.NewContract{
			ClientName:       strings.TrimSpace(req.FullName),
			ClientEmail:      strings.TrimSpace(req.Email),
			ClientPhone:      orDefault(req.WhatsApp, strings.TrimSpace(req.Phone)),
			DigitalSignature: strings.TrimSpace(req.DigitalSignature),
		},
		describe: func(_ *domain.Package, plan *domain.ManagementPlan) string {
			name := "N/A"
			if plan != nil {
				name = plan.Name
			}
			return fmt.Sprintf("Gestão/Manutenção - Plano %s (%s)", name, frequency)
		},
		onSuccess: paymentMessage,
	})
}

// SubmitGeneric handles the combined form where package and plan are both
// optional.
func (s *OrderService) SubmitGeneric(ctx context.Context, sess *domain.Session, req *domain.GenericOrderRequest) (*domain.SubmissionResult, error) {
	ctx, span := orderTracer.Start(ctx, "OrderService.SubmitGeneric")
	defer span.End()

	if err := s.precheck(validation.FormPedido, req.Submission, "", nil, sess); err != nil {
		return nil, err
	}
	if err := s.validate(validation.FormPedido, req); err != nil {
		return nil, err
	}

	return s.submit(ctx, sess, draft{
		form: validation.FormPedido,
		order: domain.NewOrder{
			BusinessName: strings.TrimSpace(req.BusinessName),
			BusinessType: strings.TrimSpace(req.BusinessType),
			PackageID:    req.PackageID,
			PlanID:       req.PlanID,
			Description:  strings.TrimSpace(req.Description),
			Preferences:  strings.TrimSpace(req.Preferences),
		},
		contract: domain.NewContract{
			ClientName:       strings.TrimSpace(req.Name),
			ClientEmail:      strings.TrimSpace(req.Email),
			ClientPhone:      strings.TrimSpace(req.Phone),
			DigitalSignature: strings.TrimSpace(req.DigitalSignature),
		},
		describe: func(pkg *domain.Package, plan *domain.ManagementPlan) string {
			desc := "Pacote não selecionado"
			if pkg != nil {
				desc = pkg.Name
			}
			if plan != nil {
				desc += " + Plano " + plan.Name
			}
			return desc
		},
		onSuccess: func(orderNumber string) string {
			return fmt.Sprintf("O seu pedido %s foi registado. Entraremos em contacto em breve.", orderNumber)
		},
	})
}

// precheck enforces, in order: accepted terms, a typed signature, the
// form's required selection (when missing is set) and a session.
func (s *OrderService) precheck(form string, sub domain.Submission, selected string, missing *domain.ErrPrecondition, sess *domain.Session) error {
	var err error
	switch {
	case !sub.AcceptTerms:
		err = errTermsNotAccepted
	case strings.TrimSpace(sub.DigitalSignature) == "":
		err = errSignatureMissing
	case missing != nil && strings.TrimSpace(selected) == "":
		err = missing
	case sess == nil || sess.UserID == "":
		s.metrics.IncrOrderRejected("unauthenticated")
		return errLoginRequired
	default:
		return nil
	}
	s.metrics.IncrOrderRejected("precondition")
	s.logger.Debug("order precondition failed", zap.String("form", form), zap.Error(err))
	return err
}

func (s *OrderService) validate(form string, req any) error {
	if err := s.validator.Validate(req).Err(); err != nil {
		s.metrics.IncrOrderRejected("validation")
		return err
	}
	return nil
}

// submit writes the order, prices it, then writes the contract. The two
// inserts are sequential and not transactional: a failed contract insert
// leaves the order in place and is reported as an orphan.
func (s *OrderService) submit(ctx context.Context, sess *domain.Session, d draft) (*domain.SubmissionResult, error) {
	ctx, span := orderTracer.Start(ctx, "OrderService.submit")
	defer span.End()
	span.SetAttributes(attribute.String("order.form", d.form), attribute.String("user.id", sess.UserID))

	start := s.now()
	defer func() { s.metrics.RecordRequestDuration("submit_"+d.form, time.Since(start)) }()

	orderNumber, contractNumber := s.numbers()

	d.order.UserID = sess.UserID
	d.order.OrderNumber = orderNumber
	d.order.Status = domain.InitialOrderStatus

	order, err := s.store.CreateOrder(ctx, &d.order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order insert failed")
		s.metrics.IncrOrderRejected("order_insert")
		s.metrics.IncrExternalError("orders")
		s.logger.Error("order insert failed", zap.String("form", d.form), zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, err
	}
	if order.OrderNumber != "" {
		orderNumber = order.OrderNumber
	}

	pkg, plan := s.resolve(ctx, d.order.PackageID, d.order.PlanID)
	total := 0.0
	if pkg != nil {
		total += pkg.Price
	}
	if plan != nil {
		total += plan.PriceMonthly
	}

	d.contract.OrderID = order.ID
	d.contract.UserID = sess.UserID
	d.contract.ContractNumber = contractNumber
	d.contract.ServiceDescription = d.describe(pkg, plan)
	d.contract.TotalValue = total
	d.contract.SignedAt = s.now().UTC()

	contract, err := s.store.CreateContract(ctx, &d.contract)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "contract insert failed")
		s.metrics.IncrOrphanedOrder()
		s.metrics.IncrExternalError("contracts")
		s.logger.Error("contract insert failed, order left without contract",
			zap.String("form", d.form),
			zap.String("order_id", order.ID),
			zap.String("order_number", orderNumber),
			zap.String("user_id", sess.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncrOrderSubmitted(d.form)
	s.logger.Info("order submitted",
		zap.String("form", d.form),
		zap.String("order_id", order.ID),
		zap.String("contract_id", contract.ID),
		zap.Float64("total_value", total),
	)

	return &domain.SubmissionResult{
		OrderID:        order.ID,
		OrderNumber:    orderNumber,
		ContractID:     contract.ID,
		ContractNumber: contract.ContractNumber,
		TotalValue:     total,
		Title:          submittedTitle,
		Message:        d.onSuccess(orderNumber),
		RedirectTo:     "/pedido-confirmado?pedido=" + order.ID,
	}, nil
}

// resolve prices the selection. A failed lookup counts as an absent side.
func (s *OrderService) resolve(ctx context.Context, packageID, planID string) (*domain.Package, *domain.ManagementPlan) {
	pkg, err := s.catalog.ResolvePackage(ctx, packageID)
	if err != nil {
		s.logger.Warn("package lookup failed, pricing it as 0", zap.String("package_id", packageID), zap.Error(err))
		pkg = nil
	}
	plan, err := s.catalog.ResolvePlan(ctx, planID)
	if err != nil {
		s.logger.Warn("plan lookup failed, pricing it as 0", zap.String("plan_id", planID), zap.Error(err))
		plan = nil
	}
	return pkg, plan
}

// numbers returns paired order and contract numbers sharing one suffix.
func (s *OrderService) numbers() (string, string) {
	day := s.now().UTC().Format("20060102")
	suffix := s.suffix()
	return "PED-" + day + "-" + suffix, "CTR-" + day + "-" + suffix
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func paymentMessage(string) string {
	return "O seu pedido foi registado. Siga as instruções de pagamento."
}

// otherOr replaces the "outro" choice with its free-text companion.
func otherOr(choice, other string) string {
	if choice == domain.ChoiceOther {
		return strings.TrimSpace(other)
	}
	return choice
}

// joinChoices drops "outro" from a multi-select and appends its free text.
func joinChoices(choices []string, other string) string {
	out := make([]string, 0, len(choices))
	hasOther := false
	for _, c := range choices {
		if c == domain.ChoiceOther {
			hasOther = true
			continue
		}
		out = append(out, c)
	}
	if hasOther {
		out = append(out, strings.TrimSpace(other))
	}
	return strings.Join(out, ", ")
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// Statuses describes the order lifecycle for status badges.
func Statuses() []domain.OrderStatusInfo {
	out := make([]domain.OrderStatusInfo, 0, len(domain.OrderStatuses))
	for _, from := range domain.OrderStatuses {
		info := domain.OrderStatusInfo{Value: from, Label: from.Label(), Terminal: from.Terminal(), Next: []domain.OrderStatus{}}
		for _, to := range domain.OrderStatuses {
			if domain.CanTransition(from, to) {
				info.Next = append(info.Next, to)
			}
		}
		out = append(out, info)
	}
	return out
}
