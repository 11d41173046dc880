package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var contractTracer = otel.Tracer("service/contract")

//go:embed templates/contract.html.tmpl
var contractFS embed.FS

var contractTmpl = template.Must(
	template.New("contract.html.tmpl").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(contractFS, "templates/contract.html.tmpl"),
)

// contractClauses are the terms printed on every contract.
var contractClauses = []string{
	"O presente contrato entra em vigor na data de assinatura digital.",
	"O prazo de entrega será acordado entre as partes após confirmação do pagamento.",
	"O pagamento deve ser efectuado conforme as instruções fornecidas.",
	"A SmartPresence compromete-se a entregar os serviços conforme especificado.",
	"Alterações ao escopo do projecto podem resultar em custos adicionais.",
	"Este contrato é regido pelas leis de Moçambique.",
}

// Mozambique has no daylight saving time.
var maputo = time.FixedZone("CAT", 2*60*60)

const contractContentType = "text/html; charset=utf-8"

// ContractService reads contracts and renders them for download.
type ContractService struct {
	store   port.ContractStore
	archive port.ContractArchive // nil when archiving is disabled
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewContractService creates a new contract service. archive may be nil.
func NewContractService(store port.ContractStore, archive port.ContractArchive, metrics *observability.Metrics, logger *zap.Logger) *ContractService {
	return &ContractService{store: store, archive: archive, metrics: metrics, logger: logger, now: time.Now}
}

// Get finds a contract by its id or, failing that, by its order id.
func (s *ContractService) Get(ctx context.Context, sess *domain.Session, q domain.ContractLookup) (*domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "ContractService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", q.ContractID), attribute.String("order.id", q.OrderID))

	notFound := &domain.ErrNotFound{Resource: "contract", ID: q.ContractID + q.OrderID, Message: "Contrato não encontrado"}
	if q.ContractID == "" && q.OrderID == "" {
		return nil, notFound
	}

	c, err := s.store.FindContract(ctx, q)
	if err != nil {
		var open *domain.ErrCircuitOpen
		if errors.As(err, &open) {
			return nil, err
		}
		s.logger.Error("contract fetch failed", zap.String("contract_id", q.ContractID), zap.String("order_id", q.OrderID), zap.Error(err))
		return nil, &domain.ErrExternalService{
			Service: "contracts",
			Err:     &domain.ErrBackend{Message: "Erro ao carregar contrato"},
		}
	}
	if c == nil || !canSee(sess, c.UserID) {
		return nil, notFound
	}
	return c, nil
}

// Export renders the printable contract. When an archive is configured a
// copy is stored under contracts/<number>.html; archive failures are
// logged and do not fail the download.
func (s *ContractService) Export(ctx context.Context, sess *domain.Session, contractID string) (*domain.ContractDocument, error) {
	ctx, span := contractTracer.Start(ctx, "ContractService.Export")
	defer span.End()

	c, err := s.Get(ctx, sess, domain.ContractLookup{ContractID: contractID})
	if err != nil {
		return nil, err
	}

	body, err := s.Render(c)
	if err != nil {
		return nil, err
	}

	name := orDefault(c.ContractNumber, c.ID)
	doc := &domain.ContractDocument{
		Filename:    "contrato-" + name + ".html",
		ContentType: contractContentType,
		Body:        body,
	}

	if s.archive != nil {
		key := "contracts/" + name + ".html"
		if err := s.archive.Put(ctx, key, contractContentType, body); err != nil {
			s.metrics.IncrContractArchived("failed")
			s.logger.Warn("contract archive failed", zap.String("key", key), zap.Error(err))
		} else {
			s.metrics.IncrContractArchived("stored")
			doc.ArchiveKey = key
		}
	}

	return doc, nil
}

type contractView struct {
	Number      string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Description string
	Total       string
	Clauses     []string
	Signature   string
	SignedDate  string
	GeneratedAt string
}

// Render produces the standalone HTML document of c.
func (s *ContractService) Render(c *domain.Contract) ([]byte, error) {
	signed := c.CreatedAt
	if c.SignedAt != nil {
		signed = *c.SignedAt
	}
	now := s.now().In(maputo)

	view := contractView{
		Number:      c.ContractNumber,
		ClientName:  c.ClientName,
		ClientEmail: c.ClientEmail,
		ClientPhone: domain.StringOrEmpty(c.ClientPhone),
		Description: c.ServiceDescription,
		Total:       formatMT(c.TotalValue),
		Clauses:     contractClauses,
		Signature:   domain.StringOrEmpty(c.DigitalSignature),
		SignedDate:  longDatePT(signed.In(maputo)),
		GeneratedAt: now.Format("02/01/2006") + " às " + now.Format("15:04:05"),
	}

	var buf bytes.Buffer
	if err := contractTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render contract %s: %w", c.ID, err)
	}
	return buf.Bytes(), nil
}

var monthsPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// longDatePT formats t as "05 de março de 2026".
func longDatePT(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthsPT[t.Month()-1], t.Year())
}
