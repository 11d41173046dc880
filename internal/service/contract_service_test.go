package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleContract() domain.Contract {
	signed := time.Date(2026, 3, 5, 23, 30, 0, 0, time.UTC)
	return domain.Contract{
		ID:                 "c1",
		OrderID:            "o1",
		UserID:             "u1",
		ContractNumber:     "CTR-20260305-ABC123",
		ClientName:         "Ana Machava",
		ClientEmail:        "ana@example.com",
		ServiceDescription: "Criação de website - Pacote Padrão",
		TotalValue:         5999,
		TermsAccepted:      true,
		DigitalSignature:   domain.OptionalString("Ana <Machava>"),
		SignedAt:           &signed,
		CreatedAt:          signed,
	}
}

func newContractService(store *fakeStore, archive *fakeArchive) (*service.ContractService, *observability.Metrics) {
	m := observability.NewMetrics()
	var svc *service.ContractService
	if archive == nil {
		svc = service.NewContractService(store, nil, m, zap.NewNop())
	} else {
		svc = service.NewContractService(store, archive, m, zap.NewNop())
	}
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, m
}

func TestContract_Lookup(t *testing.T) {
	store := &fakeStore{contracts: []domain.Contract{sampleContract()}}
	svc, _ := newContractService(store, nil)

	byOrder, err := svc.Get(context.Background(), client, domain.ContractLookup{OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", byOrder.ID)

	byID, err := svc.Get(context.Background(), client, domain.ContractLookup{ContractID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "CTR-20260305-ABC123", byID.ContractNumber)

	for name, q := range map[string]domain.ContractLookup{
		"no keys":   {},
		"no row":    {OrderID: "o9"},
		"not owner": {ContractID: "c1"},
	} {
		t.Run(name, func(t *testing.T) {
			sess := client
			if name == "not owner" {
				sess = &domain.Session{UserID: "u2", Role: domain.RoleCliente}
			}
			_, err := svc.Get(context.Background(), sess, q)
			var nf *domain.ErrNotFound
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, "Contrato não encontrado", nf.Error())
		})
	}
}

func TestContract_FetchError(t *testing.T) {
	svc, _ := newContractService(&fakeStore{readErr: errBoom}, nil)

	_, err := svc.Get(context.Background(), client, domain.ContractLookup{OrderID: "o1"})

	var be *domain.ErrBackend
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "Erro ao carregar contrato", be.Message)
	assert.False(t, errors.Is(err, errBoom))

	open := &domain.ErrCircuitOpen{Service: "supabase"}
	svc, _ = newContractService(&fakeStore{readErr: open}, nil)
	_, err = svc.Get(context.Background(), client, domain.ContractLookup{OrderID: "o1"})
	assert.ErrorAs(t, err, &open)
}

func TestContract_ExportRendersDocument(t *testing.T) {
	archive := &fakeArchive{}
	store := &fakeStore{contracts: []domain.Contract{sampleContract()}}
	svc, _ := newContractService(store, archive)

	doc, err := svc.Export(context.Background(), client, "c1")
	require.NoError(t, err)

	assert.Equal(t, "contrato-CTR-20260305-ABC123.html", doc.Filename)
	assert.Equal(t, "text/html; charset=utf-8", doc.ContentType)
	assert.Equal(t, "contracts/CTR-20260305-ABC123.html", doc.ArchiveKey)
	assert.Equal(t, []string{"contracts/CTR-20260305-ABC123.html"}, archive.keys)

	html := string(doc.Body)
	for _, want := range []string{
		"<title>Contrato - CTR-20260305-ABC123</title>",
		"CONTRATO DE PRESTAÇÃO DE SERVIÇOS",
		"Contrato Nº: CTR-20260305-ABC123",
		"<span>Ana Machava</span>",
		"<span>N/A</span>",
		"Criação de website - Pacote Padrão",
		"<strong>5.999 MT</strong>",
		"<p>1. O presente contrato entra em vigor na data de assinatura digital.</p>",
		"<p>6. Este contrato é regido pelas leis de Moçambique.</p>",
		"Ana &lt;Machava&gt;",
		"Data: 06 de março de 2026",
		"✓ Termos aceites electronicamente",
		"15/03/2026 às 11:30:00",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "Ana <Machava>")
}

func TestContract_ExportWithoutNumberOrArchive(t *testing.T) {
	c := sampleContract()
	c.ContractNumber = ""
	svc, _ := newContractService(&fakeStore{contracts: []domain.Contract{c}}, nil)

	doc, err := svc.Export(context.Background(), client, "c1")
	require.NoError(t, err)
	assert.Equal(t, "contrato-c1.html", doc.Filename)
	assert.Empty(t, doc.ArchiveKey)
	assert.Contains(t, string(doc.Body), "<title>Contrato - SmartPresence</title>")
	assert.Contains(t, string(doc.Body), "Contrato Nº: N/A")
}

func TestContract_ArchiveFailureDoesNotFailExport(t *testing.T) {
	svc, _ := newContractService(&fakeStore{contracts: []domain.Contract{sampleContract()}}, &fakeArchive{err: errBoom})

	doc, err := svc.Export(context.Background(), client, "c1")
	require.NoError(t, err)
	assert.Empty(t, doc.ArchiveKey)
	assert.True(t, strings.HasPrefix(string(doc.Body), "<!DOCTYPE html>"))
}
