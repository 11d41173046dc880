package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// DashboardService builds the client and admin dashboards.
type DashboardService struct {
	store     port.Store
	catalog   *CatalogService
	analytics *AnalyticsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(store port.Store, catalog *CatalogService, analytics *AnalyticsService, logger *zap.Logger) *DashboardService {
	return &DashboardService{store: store, catalog: catalog, analytics: analytics, logger: logger, now: time.Now}
}

// ============================================================
// Client: GET /v1/me/dashboard
// ============================================================

// Client returns the caller's profile and orders, newest first.
func (s *DashboardService) Client(ctx context.Context, sess *domain.Session) (*domain.ClientDashboard, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Client")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", sess.UserID))

	var (
		profile *domain.Profile
		orders  []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.store.GetProfile(gctx, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.store.ListOrdersByUser(gctx, sess.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := s.summarize(ctx, orders)
	return &domain.ClientDashboard{
		Profile: profile,
		Orders:  summaries,
		Stats:   domain.CountOrders(summaries),
	}, nil
}

// ============================================================
// Admin: GET /v1/admin/dashboard
// ============================================================

// Admin loads users, recent orders, stats and top pages concurrently.
func (s *DashboardService) Admin(ctx context.Context, q domain.AdminDashboardQuery) (*domain.AdminDashboard, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Admin")
	defer span.End()

	status := strings.TrimSpace(q.StatusFilter)
	if status == "" {
		status = domain.StatusFilterAll
	}
	if status != domain.StatusFilterAll && !domain.OrderStatus(status).Valid() {
		return nil, &domain.ErrValidation{Field: "status", Message: "Estado inválido"}
	}

	var (
		users    []domain.AdminUser
		recent   []domain.Order
		statuses []domain.OrderStatus
		pages    []domain.PageVisits
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.store.ListRecentOrders(gctx, domain.RecentOrdersLimit)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = s.store.ListOrderStatuses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pages, err = s.analytics.TopPages(gctx, domain.TopPagesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := domain.AdminStats{TotalUsers: len(users), TotalOrders: len(statuses)}
	for _, st := range statuses {
		switch {
		case st.Pending():
			stats.PendingOrders++
		case st == domain.StatusConcluido:
			stats.CompletedOrders++
		}
	}

	filtered := recent[:0:0]
	for _, o := range recent {
		if status == domain.StatusFilterAll || string(o.Status) == status {
			filtered = append(filtered, o)
		}
	}

	return &domain.AdminDashboard{
		Users:        searchUsers(users, q.Search),
		RecentOrders: s.summarize(ctx, filtered),
		Stats:        stats,
		TopPages:     pages,
		GeneratedAt:  s.now().UTC(),
	}, nil
}

// users joins every profile with its role; accounts without a role row
// are clients.
func (s *DashboardService) users(ctx context.Context) ([]domain.AdminUser, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]domain.UserRole, len(roles))
	for _, r := range roles {
		byUser[r.UserID] = r
	}

	out := make([]domain.AdminUser, 0, len(profiles))
	for _, p := range profiles {
		u := domain.AdminUser{Profile: p, Role: domain.RoleCliente}
		if r, ok := byUser[p.UserID]; ok {
			u.Role = r.Role
			u.IsSupremeAdmin = r.IsSupremeAdmin
		}
		out = append(out, u)
	}
	return out, nil
}

// searchUsers keeps users whose name or email contains term, ignoring case.
func searchUsers(users []domain.AdminUser, term string) []domain.AdminUser {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}
	out := make([]domain.AdminUser, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.FullName), term) || strings.Contains(strings.ToLower(u.Email), term) {
			out = append(out, u)
		}
	}
	return out
}

// summarize attaches catalog names and prices. Lookup failures leave the
// names empty.
func (s *DashboardService) summarize(ctx context.Context, orders []domain.Order) []domain.OrderSummary {
	out := make([]domain.OrderSummary, 0, len(orders))
	for _, o := range orders {
		sum := domain.OrderSummary{Order: o, StatusLabel: o.Status.Label()}
		if pkg, err := s.catalog.ResolvePackage(ctx, domain.StringOrEmpty(o.PackageID)); err != nil {
			s.logger.Warn("dashboard: package lookup failed", zap.String("order_id", o.ID), zap.Error(err))
		} else if pkg != nil {
			sum.PackageName = pkg.Name
			sum.PackagePrice = pkg.Price
		}
		if plan, err := s.catalog.ResolvePlan(ctx, domain.StringOrEmpty(o.PlanID)); err != nil {
			s.logger.Warn("dashboard: plan lookup failed", zap.String("order_id", o.ID), zap.Error(err))
		} else if plan != nil {
			sum.PlanName = plan.Name
			sum.PlanPrice = plan.PriceMonthly
		}
		out = append(out, sum)
	}
	return out
}

// ============================================================
// Admin: user export and removal
// ============================================================

var usersCSVHeader = []string{"Nome", "Email", "Negócio", "Tipo", "Data de Registo"}

// ExportUsers renders every user as CSV and names the file after today.
func (s *DashboardService) ExportUsers(ctx context.Context) (string, []byte, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.ExportUsers")
	defer span.End()

	users, err := s.users(ctx)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(usersCSVHeader); err != nil {
		return "", nil, err
	}
	for _, u := range users {
		row := []string{
			u.FullName,
			u.Email,
			domain.StringOrEmpty(u.BusinessName),
			string(u.Role),
			u.CreatedAt.In(maputo).Format("02/01/2006"),
		}
		if err := w.Write(row); err != nil {
			return "", nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}

	filename := "utilizadores_" + s.now().UTC().Format("2006-01-02") + ".csv"
	return filename, buf.Bytes(), nil
}

// DeleteUser refuses to remove the supreme admin. Removal of anyone else
// is not available yet.
func (s *DashboardService) DeleteUser(ctx context.Context, userID string) error {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.DeleteUser")
	defer span.End()
	span.SetAttributes(attribute.String("target.user_id", userID))

	role, err := s.store.GetRole(ctx, userID)
	if err != nil {
		return err
	}
	if role != nil && role.IsSupremeAdmin {
		return &domain.ErrForbidden{Action: "delete_user", Message: "O administrador supremo não pode ser removido."}
	}
	return &domain.ErrNotImplemented{Feature: "delete_user", Message: "A remoção de utilizadores será implementada em breve."}
}
