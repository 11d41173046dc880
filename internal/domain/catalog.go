package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ============================================================
// Catalog: packages (one-time) and management plans (monthly)
// ============================================================

// Features is the serialized feature list of a catalog entry. The hosted
// column is JSON and older rows carry it as a JSON-encoded string.
type Features []string

// UnmarshalJSON accepts either a JSON array or a string holding one.
func (f *Features) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Features{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = list
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("features: expected array or string: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		*f = Features{}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return fmt.Errorf("features: decode serialized list: %w", err)
	}
	*f = list
	return nil
}

// Package is a one-time site-creation offering.
type Package struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Features    Features  `json:"features"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ManagementPlan is a recurring maintenance offering.
type ManagementPlan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PriceMonthly float64   `json:"price_monthly"`
	Description  *string   `json:"description"`
	Features     Features  `json:"features"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// PackageCatalog is the response of GET /v1/catalog/packages.
type PackageCatalog struct {
	Packages    []Package `json:"packages"`
	Fallback    bool      `json:"fallback"`
	SelectedID  string    `json:"selectedId,omitempty"`
	Preselected string    `json:"preselected,omitempty"`
}

// PlanCatalog is the response of GET /v1/catalog/plans.
type PlanCatalog struct {
	Plans       []ManagementPlan `json:"plans"`
	Fallback    bool             `json:"fallback"`
	SelectedID  string           `json:"selectedId,omitempty"`
	Preselected string           `json:"preselected,omitempty"`
}

// OrderFormCatalog backs the generic order form, which offers both lists.
type OrderFormCatalog struct {
	Packages          []Package        `json:"packages"`
	Plans             []ManagementPlan `json:"plans"`
	SelectedPackageID string           `json:"selectedPackageId,omitempty"`
	SelectedPlanID    string           `json:"selectedPlanId,omitempty"`
}

// FallbackPackages returns the fixed tiers offered when the catalog is empty.
func FallbackPackages() []Package {
	return []Package{
		{ID: "1", Name: "Básico", Price: 3499, Description: OptionalString("1 página, logotipo, WhatsApp"), Features: Features{}, IsActive: true},
		{ID: "2", Name: "Padrão", Price: 5999, Description: OptionalString("3 páginas, galeria, formulário"), Features: Features{}, IsActive: true},
		{ID: "3", Name: "Premium", Price: 9999, Description: OptionalString("5 páginas, design exclusivo"), Features: Features{}, IsActive: true},
	}
}

// FallbackPlans returns the fixed plan tiers offered when the catalog is empty.
func FallbackPlans() []ManagementPlan {
	return []ManagementPlan{
		{ID: "1", Name: "Essencial", PriceMonthly: 799, Description: OptionalString("Manutenção básica mensal"), Features: Features{}, IsActive: true},
		{ID: "2", Name: "Profissional", PriceMonthly: 1499, Description: OptionalString("Gestão completa quinzenal"), Features: Features{}, IsActive: true},
		{ID: "3", Name: "Total", PriceMonthly: 2499, Description: OptionalString("Suporte ilimitado semanal"), Features: Features{}, IsActive: true},
	}
}
