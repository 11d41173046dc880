package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("sqlstore")

// Store implements port.Store with GORM.
type Store struct {
	db *gorm.DB
}

// New wraps an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func storeErr(table string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.ErrExternalService{Service: "sqlstore/" + table, Err: err}
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Ping checks database reachability for /readyz.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ============================================================
// Catalog
// ============================================================

func (s *Store) ListActivePackages(ctx context.Context) ([]domain.Package, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListActivePackages")
	defer span.End()

	var rows []packageModel
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("price asc").Find(&rows).Error; err != nil {
		return nil, storeErr("packages", err)
	}

	out := make([]domain.Package, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, storeErr("packages", fmt.Errorf("decode features of %s: %w", rows[i].ID, err))
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) ListActivePlans(ctx context.Context) ([]domain.ManagementPlan, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListActivePlans")
	defer span.End()

	var rows []planModel
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("price_monthly asc").Find(&rows).Error; err != nil {
		return nil, storeErr("management_plans", err)
	}

	out := make([]domain.ManagementPlan, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, storeErr("management_plans", fmt.Errorf("decode features of %s: %w", rows[i].ID, err))
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetPackage")
	defer span.End()
	span.SetAttributes(attribute.String("package.id", id))

	var row packageModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("packages", err)
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, storeErr("packages", err)
	}
	return &p, nil
}

func (s *Store) GetPlan(ctx context.Context, id string) (*domain.ManagementPlan, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetPlan")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", id))

	var row planModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("management_plans", err)
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, storeErr("management_plans", err)
	}
	return &p, nil
}

// ============================================================
// Orders
// ============================================================

func (s *Store) CreateOrder(ctx context.Context, o *domain.NewOrder) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.number", o.OrderNumber))

	row := orderModel{
		ID:           newID(),
		UserID:       o.UserID,
		OrderNumber:  o.OrderNumber,
		BusinessName: o.BusinessName,
		BusinessType: domain.OptionalString(o.BusinessType),
		PackageID:    domain.OptionalString(o.PackageID),
		PlanID:       domain.OptionalString(o.PlanID),
		Description:  domain.OptionalString(o.Description),
		Preferences:  domain.OptionalString(o.Preferences),
		Status:       string(o.Status),
	}
	if row.Status == "" {
		row.Status = string(domain.InitialOrderStatus)
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storeErr("orders", err)
	}
	order := row.toDomain()
	return &order, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	var row orderModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("orders", err)
	}
	order := row.toDomain()
	return &order, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListOrdersByUser")
	defer span.End()

	var rows []orderModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, storeErr("orders", err)
	}
	return ordersToDomain(rows), nil
}

func (s *Store) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListRecentOrders")
	defer span.End()

	var rows []orderModel
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, storeErr("orders", err)
	}
	return ordersToDomain(rows), nil
}

func (s *Store) ListOrderStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListOrderStatuses")
	defer span.End()

	var raw []string
	if err := s.db.WithContext(ctx).Model(&orderModel{}).Pluck("status", &raw).Error; err != nil {
		return nil, storeErr("orders", err)
	}
	out := make([]domain.OrderStatus, len(raw))
	for i, st := range raw {
		out[i] = domain.OrderStatus(st)
	}
	return out, nil
}

func ordersToDomain(rows []orderModel) []domain.Order {
	out := make([]domain.Order, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}

// ============================================================
// Contracts
// ============================================================

func (s *Store) CreateContract(ctx context.Context, c *domain.NewContract) (*domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateContract")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", c.OrderID))

	signedAt := c.SignedAt.UTC()
	row := contractModel{
		ID:                 newID(),
		OrderID:            c.OrderID,
		UserID:             c.UserID,
		ContractNumber:     c.ContractNumber,
		ClientName:         c.ClientName,
		ClientEmail:        c.ClientEmail,
		ClientPhone:        domain.OptionalString(c.ClientPhone),
		ServiceDescription: c.ServiceDescription,
		TotalValue:         c.TotalValue,
		TermsAccepted:      true,
		DigitalSignature:   domain.OptionalString(c.DigitalSignature),
		SignedAt:           &signedAt,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storeErr("contracts", err)
	}
	contract := row.toDomain()
	return &contract, nil
}

func (s *Store) FindContract(ctx context.Context, q domain.ContractLookup) (*domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "SQL.FindContract")
	defer span.End()

	tx := s.db.WithContext(ctx)
	switch {
	case q.ContractID != "":
		tx = tx.Where("id = ?", q.ContractID)
	case q.OrderID != "":
		tx = tx.Where("order_id = ?", q.OrderID).Order("created_at desc")
	default:
		return nil, nil
	}

	var row contractModel
	err := tx.Take(&row).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("contracts", err)
	}
	contract := row.toDomain()
	return &contract, nil
}

// ============================================================
// Profiles & roles
// ============================================================

func (s *Store) CreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "SQL.CreateProfile")
	defer span.End()

	row := profileModel{
		ID:           newID(),
		UserID:       p.UserID,
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		BusinessName: p.BusinessName,
		BusinessType: p.BusinessType,
		AvatarURL:    p.AvatarURL,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storeErr("profiles", err)
	}
	created := row.toDomain()
	return &created, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetProfile")
	defer span.End()

	var row profileModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("profiles", err)
	}
	p := row.toDomain()
	return &p, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListProfiles")
	defer span.End()

	var rows []profileModel
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, storeErr("profiles", err)
	}
	out := make([]domain.Profile, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) CreateRole(ctx context.Context, userID string, role domain.Role) error {
	ctx, span := tracer.Start(ctx, "SQL.CreateRole")
	defer span.End()

	row := userRoleModel{ID: newID(), UserID: userID, Role: string(role)}
	return storeErr("user_roles", s.db.WithContext(ctx).Create(&row).Error)
}

func (s *Store) GetRole(ctx context.Context, userID string) (*domain.UserRole, error) {
	ctx, span := tracer.Start(ctx, "SQL.GetRole")
	defer span.End()

	var row userRoleModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("user_roles", err)
	}
	r := row.toDomain()
	return &r, nil
}

func (s *Store) ListRoles(ctx context.Context) ([]domain.UserRole, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListRoles")
	defer span.End()

	var rows []userRoleModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, storeErr("user_roles", err)
	}
	out := make([]domain.UserRole, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// ============================================================
// Navigation logs
// ============================================================

func (s *Store) InsertNavigationLog(ctx context.Context, l *domain.NavigationLog) error {
	ctx, span := tracer.Start(ctx, "SQL.InsertNavigationLog")
	defer span.End()

	row := navigationLogModel{
		ID:        newID(),
		PagePath:  l.PagePath,
		PageTitle: l.PageTitle,
		Referrer:  l.Referrer,
		UserAgent: l.UserAgent,
		SessionID: l.SessionID,
		UserID:    l.UserID,
		IPAddress: l.IPAddress,
	}
	return storeErr("navigation_logs", s.db.WithContext(ctx).Create(&row).Error)
}

func (s *Store) ListPagePaths(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SQL.ListPagePaths")
	defer span.End()

	var paths []string
	if err := s.db.WithContext(ctx).Model(&navigationLogModel{}).Pluck("page_path", &paths).Error; err != nil {
		return nil, storeErr("navigation_logs", err)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}
