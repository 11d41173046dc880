package service

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed policies/*.md
var policyFS embed.FS

var policyTitles = map[string]string{
	"privacidade": "Política de Privacidade",
	"termos":      "Termos de Uso",
	"seguranca":   "Segurança",
}

// PolicyService serves the legal pages. Pages are rendered once.
type PolicyService struct {
	md goldmark.Markdown

	once     sync.Once
	pages    map[string]*domain.Policy
	parseErr error
}

// NewPolicyService creates a new policy service.
func NewPolicyService() *PolicyService {
	return &PolicyService{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Get returns the policy page of the given type.
func (s *PolicyService) Get(kind string) (*domain.Policy, error) {
	s.once.Do(s.load)
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	p, ok := s.pages[kind]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "policy", ID: kind, Message: "Página não encontrada"}
	}
	return p, nil
}

func (s *PolicyService) load() {
	s.pages = make(map[string]*domain.Policy, len(policyTitles))
	for kind, title := range policyTitles {
		src, err := policyFS.ReadFile("policies/" + kind + ".md")
		if err != nil {
			s.parseErr = fmt.Errorf("policy %s: %w", kind, err)
			return
		}
		var buf bytes.Buffer
		if err := s.md.Convert(src, &buf); err != nil {
			s.parseErr = fmt.Errorf("policy %s: render: %w", kind, err)
			return
		}
		s.pages[kind] = &domain.Policy{Type: kind, Title: title, Markdown: string(src), HTML: buf.String()}
	}
}
