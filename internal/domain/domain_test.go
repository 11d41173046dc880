package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
)

func TestOrderStatusLabels(t *testing.T) {
	want := map[domain.OrderStatus]string{
		domain.StatusPendente:    "Pendente",
		domain.StatusEmAndamento: "Em Andamento",
		domain.StatusDemo:        "Demo",
		domain.StatusAvaliacao:   "Avaliação",
		domain.StatusConcluido:   "Concluído",
		domain.StatusCancelado:   "Cancelado",
	}
	for status, label := range want {
		if got := status.Label(); got != label {
			t.Errorf("%s: expected label %q, got %q", status, label, got)
		}
	}
	if got := domain.OrderStatus("arquivado").Label(); got != "arquivado" {
		t.Errorf("unknown status should echo its value, got %q", got)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.StatusPendente, domain.StatusEmAndamento, true},
		{domain.StatusEmAndamento, domain.StatusDemo, true},
		{domain.StatusDemo, domain.StatusAvaliacao, true},
		{domain.StatusAvaliacao, domain.StatusConcluido, true},
		{domain.StatusPendente, domain.StatusConcluido, false},
		{domain.StatusDemo, domain.StatusPendente, false},
		{domain.StatusPendente, domain.StatusCancelado, true},
		{domain.StatusAvaliacao, domain.StatusCancelado, true},
		{domain.StatusConcluido, domain.StatusCancelado, false},
		{domain.StatusCancelado, domain.StatusPendente, false},
		{"bogus", domain.StatusCancelado, false},
	}
	for _, tt := range tests {
		if got := domain.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFeaturesUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `{"features":["a","b"]}`, []string{"a", "b"}},
		{"serialized string", `{"features":"[\"x\",\"y\"]"}`, []string{"x", "y"}},
		{"null", `{"features":null}`, []string{}},
		{"empty string", `{"features":""}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p domain.Package
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(p.Features) != len(tt.want) {
				t.Fatalf("expected %d features, got %d (%v)", len(tt.want), len(p.Features), p.Features)
			}
			for i := range tt.want {
				if p.Features[i] != tt.want[i] {
					t.Errorf("feature %d: expected %q, got %q", i, tt.want[i], p.Features[i])
				}
			}
		})
	}

	var p domain.Package
	if err := json.Unmarshal([]byte(`{"features":"not json"}`), &p); err == nil {
		t.Error("expected error for malformed serialized list")
	}
}

func TestFallbackTiers(t *testing.T) {
	pkgs := domain.FallbackPackages()
	if len(pkgs) != 3 {
		t.Fatalf("expected 3 fallback packages, got %d", len(pkgs))
	}
	wantPkgs := []struct {
		name  string
		price float64
	}{{"Básico", 3499}, {"Padrão", 5999}, {"Premium", 9999}}
	for i, w := range wantPkgs {
		if pkgs[i].Name != w.name || pkgs[i].Price != w.price {
			t.Errorf("package %d: expected %s/%v, got %s/%v", i, w.name, w.price, pkgs[i].Name, pkgs[i].Price)
		}
	}

	plans := domain.FallbackPlans()
	if len(plans) != 3 {
		t.Fatalf("expected 3 fallback plans, got %d", len(plans))
	}
	if plans[0].Name != "Essencial" || plans[0].PriceMonthly != 799 {
		t.Errorf("unexpected first plan: %+v", plans[0])
	}
	if plans[2].Name != "Total" || plans[2].PriceMonthly != 2499 {
		t.Errorf("unexpected last plan: %+v", plans[2])
	}
}

func TestCountOrders(t *testing.T) {
	orders := []domain.OrderSummary{
		{Order: domain.Order{Status: domain.StatusPendente}},
		{Order: domain.Order{Status: domain.StatusEmAndamento}},
		{Order: domain.Order{Status: domain.StatusDemo}},
		{Order: domain.Order{Status: domain.StatusConcluido}},
		{Order: domain.Order{Status: domain.StatusCancelado}},
	}
	stats := domain.CountOrders(orders)
	if stats.Total != 5 || stats.Pending != 2 || stats.Completed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestPageLabel(t *testing.T) {
	if got := domain.PageLabel("/pedido"); got != "Formulário de Pedido" {
		t.Errorf("unexpected label %q", got)
	}
	if got := domain.PageLabel("/contrato"); got != "/contrato" {
		t.Errorf("unknown paths should fall back to the path, got %q", got)
	}
}

func TestNewHealthStatus(t *testing.T) {
	ok := domain.ServiceHealth{Name: "bfa-api", Status: domain.HealthHealthy}
	down := domain.ServiceHealth{Name: "store", Status: domain.HealthDegraded, Error: "timeout"}

	if got := domain.NewHealthStatus(ok).Status; got != domain.HealthHealthy {
		t.Errorf("expected healthy, got %q", got)
	}
	if got := domain.NewHealthStatus(ok, down).Status; got != domain.HealthDegraded {
		t.Errorf("expected degraded, got %q", got)
	}
}
