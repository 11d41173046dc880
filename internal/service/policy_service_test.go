package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"
)

func TestPolicy_Get(t *testing.T) {
	svc := service.NewPolicyService()

	tests := []struct {
		kind, title, heading string
	}{
		{"privacidade", "Política de Privacidade", "<h2>1. Introdução</h2>"},
		{"termos", "Termos de Uso", "<h2>1. Aceitação dos Termos</h2>"},
		{"seguranca", "Segurança", "<h3>Encriptação</h3>"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			p, err := svc.Get(tt.kind)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Title != tt.title {
				t.Errorf("expected title %q, got %q", tt.title, p.Title)
			}
			if !strings.Contains(p.HTML, tt.heading) {
				t.Errorf("expected %q in rendered page", tt.heading)
			}
			if !strings.Contains(p.HTML, "<li>") {
				t.Error("expected list items in rendered page")
			}
		})
	}
}

func TestPolicy_Unknown(t *testing.T) {
	_, err := service.NewPolicyService().Get("cookies")

	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if nf.Error() != "Página não encontrada" {
		t.Errorf("unexpected message %q", nf.Error())
	}
}
