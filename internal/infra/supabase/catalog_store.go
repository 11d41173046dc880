package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// CatalogStore: packages and management_plans
// ============================================================

// ListActivePackages fetches active packages, cheapest first.
func (c *Client) ListActivePackages(ctx context.Context) ([]domain.Package, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListActivePackages")
	defer span.End()

	var packages []domain.Package
	err := c.read(ctx, "supabase/packages", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "packages?select=*&is_active=eq.true&order=price.asc")
		if err != nil {
			return err
		}
		packages, err = decodeAll[domain.Package](body, "packages")
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.count", len(packages)))
	return packages, nil
}

// ListActivePlans fetches active management plans, cheapest first.
func (c *Client) ListActivePlans(ctx context.Context) ([]domain.ManagementPlan, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListActivePlans")
	defer span.End()

	var plans []domain.ManagementPlan
	err := c.read(ctx, "supabase/management_plans", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "management_plans?select=*&is_active=eq.true&order=price_monthly.asc")
		if err != nil {
			return err
		}
		plans, err = decodeAll[domain.ManagementPlan](body, "management_plans")
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.count", len(plans)))
	return plans, nil
}

// GetPackage fetches one package by id, active or not.
func (c *Client) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPackage")
	defer span.End()
	span.SetAttributes(attribute.String("package.id", id))

	var pkg *domain.Package
	err := c.read(ctx, "supabase/packages", func() error {
		path := fmt.Sprintf("packages?select=*&id=%s&limit=1", eq(id))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		pkg, err = decodeFirst[domain.Package](body, "packages")
		return err
	})
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// GetPlan fetches one management plan by id, active or not.
func (c *Client) GetPlan(ctx context.Context, id string) (*domain.ManagementPlan, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPlan")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", id))

	var plan *domain.ManagementPlan
	err := c.read(ctx, "supabase/management_plans", func() error {
		path := fmt.Sprintf("management_plans?select=*&id=%s&limit=1", eq(id))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		plan, err = decodeFirst[domain.ManagementPlan](body, "management_plans")
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
