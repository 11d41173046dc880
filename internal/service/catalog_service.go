// Package service provides the business logic layer (use cases) of the
// order-intake portal.
package service

import (
	"context"
	"strings"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

var catalogTracer = otel.Tracer("service/catalog")

const (
	cacheKeyPackages = "packages"
	cacheKeyPlans    = "plans"
	cacheLabel       = "catalog"
)

// CatalogService loads packages and plans, falling back to the fixed tiers
// when the store has none or cannot be reached.
type CatalogService struct {
	store        port.CatalogStore
	packageCache port.Cache[[]domain.Package]
	planCache    port.Cache[[]domain.ManagementPlan]
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	store port.CatalogStore,
	packageCache port.Cache[[]domain.Package],
	planCache port.Cache[[]domain.ManagementPlan],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		store:        store,
		packageCache: packageCache,
		planCache:    planCache,
		metrics:      metrics,
		logger:       logger,
	}
}

// Packages returns the displayed packages and the id matching preselect,
// a package name taken from the ?pacote= query parameter.
func (s *CatalogService) Packages(ctx context.Context, preselect string) *domain.PackageCatalog {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.Packages")
	defer span.End()

	pkgs, fallback := s.loadPackages(ctx)
	span.SetAttributes(attribute.Bool("catalog.fallback", fallback))

	out := &domain.PackageCatalog{Packages: pkgs, Fallback: fallback}
	if name := strings.TrimSpace(preselect); name != "" {
		out.Preselected = name
		out.SelectedID = matchName(name, pkgs, func(p domain.Package) (string, string) { return p.ID, p.Name })
	}
	return out
}

// Plans returns the displayed plans and the id matching preselect
// (?plano=).
func (s *CatalogService) Plans(ctx context.Context, preselect string) *domain.PlanCatalog {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.Plans")
	defer span.End()

	plans, fallback := s.loadPlans(ctx)
	span.SetAttributes(attribute.Bool("catalog.fallback", fallback))

	out := &domain.PlanCatalog{Plans: plans, Fallback: fallback}
	if name := strings.TrimSpace(preselect); name != "" {
		out.Preselected = name
		out.SelectedID = matchName(name, plans, func(p domain.ManagementPlan) (string, string) { return p.ID, p.Name })
	}
	return out
}

// OrderForm returns both lists for the generic order form.
func (s *CatalogService) OrderForm(ctx context.Context, packageName, planName string) *domain.OrderFormCatalog {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.OrderForm")
	defer span.End()

	pkgs := s.Packages(ctx, packageName)
	plans := s.Plans(ctx, planName)
	return &domain.OrderFormCatalog{
		Packages:          pkgs.Packages,
		Plans:             plans.Plans,
		SelectedPackageID: pkgs.SelectedID,
		SelectedPlanID:    plans.SelectedID,
	}
}

// ResolvePackage finds a package among the displayed ones first, so the
// fallback tiers price like the rows the user saw, then asks the store.
// It returns nil when no package matches.
func (s *CatalogService) ResolvePackage(ctx context.Context, id string) (*domain.Package, error) {
	if id == "" {
		return nil, nil
	}
	pkgs, _ := s.loadPackages(ctx)
	for i := range pkgs {
		if pkgs[i].ID == id {
			return &pkgs[i], nil
		}
	}
	return s.store.GetPackage(ctx, id)
}

// ResolvePlan is ResolvePackage for management plans.
func (s *CatalogService) ResolvePlan(ctx context.Context, id string) (*domain.ManagementPlan, error) {
	if id == "" {
		return nil, nil
	}
	plans, _ := s.loadPlans(ctx)
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i], nil
		}
	}
	return s.store.GetPlan(ctx, id)
}

func (s *CatalogService) loadPackages(ctx context.Context) ([]domain.Package, bool) {
	if cached, ok := s.packageCache.Get(cacheKeyPackages); ok {
		s.metrics.IncrCacheHit(cacheLabel)
		return cached, false
	}
	s.metrics.IncrCacheMiss(cacheLabel)

	pkgs, err := s.store.ListActivePackages(ctx)
	if err != nil || len(pkgs) == 0 {
		s.fallback("packages", err)
		return domain.FallbackPackages(), true
	}
	s.packageCache.Set(cacheKeyPackages, pkgs)
	return pkgs, false
}

func (s *CatalogService) loadPlans(ctx context.Context) ([]domain.ManagementPlan, bool) {
	if cached, ok := s.planCache.Get(cacheKeyPlans); ok {
		s.metrics.IncrCacheHit(cacheLabel)
		return cached, false
	}
	s.metrics.IncrCacheMiss(cacheLabel)

	plans, err := s.store.ListActivePlans(ctx)
	if err != nil || len(plans) == 0 {
		s.fallback("plans", err)
		return domain.FallbackPlans(), true
	}
	s.planCache.Set(cacheKeyPlans, plans)
	return plans, false
}

func (s *CatalogService) fallback(catalog string, err error) {
	s.metrics.IncrCatalogFallback(catalog)
	if err != nil {
		s.logger.Warn("catalog unavailable, serving fallback tiers", zap.String("catalog", catalog), zap.Error(err))
		return
	}
	s.logger.Info("catalog empty, serving fallback tiers", zap.String("catalog", catalog))
}

// matchName returns the id of the first item whose name equals name under
// Unicode case folding.
func matchName[T any](name string, items []T, idName func(T) (string, string)) string {
	fold := cases.Fold()
	want := fold.String(name)
	for _, it := range items {
		id, n := idName(it)
		if fold.String(n) == want {
			return id
		}
	}
	return ""
}
