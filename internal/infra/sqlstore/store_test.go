package sqlstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/sqlstore"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ port.Store = (*sqlstore.Store)(nil)
var _ port.AuthProvider = (*sqlstore.AuthProvider)(nil)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := sqlstore.Open(ctx, "sqlite", dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	require.NoError(t, sqlstore.Migrate(ctx, db))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), "mysql", "x", zap.NewNop())
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestSeed_FallbackTiersOnce(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := sqlstore.New(db)

	require.NoError(t, sqlstore.Seed(ctx, db, zap.NewNop()))
	require.NoError(t, sqlstore.Seed(ctx, db, zap.NewNop()))

	pkgs, err := s.ListActivePackages(ctx)
	require.NoError(t, err)
	require.Len(t, pkgs, 3)
	assert.Equal(t, "Básico", pkgs[0].Name)
	assert.Equal(t, 3499.0, pkgs[0].Price)
	assert.Equal(t, "Premium", pkgs[2].Name)
	assert.NotNil(t, pkgs[0].Features)

	plans, err := s.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []float64{799, 1499, 2499}, []float64{plans[0].PriceMonthly, plans[1].PriceMonthly, plans[2].PriceMonthly})
}

func TestCatalog_GetMissing(t *testing.T) {
	s := sqlstore.New(openDB(t))

	pkg, err := s.GetPackage(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, pkg)

	plan, err := s.GetPlan(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestOrderAndContract_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := sqlstore.New(db)
	require.NoError(t, sqlstore.Seed(ctx, db, zap.NewNop()))

	pkgs, err := s.ListActivePackages(ctx)
	require.NoError(t, err)
	pkgID := pkgs[1].ID

	order, err := s.CreateOrder(ctx, &domain.NewOrder{
		UserID:       "u1",
		OrderNumber:  "PED-20260101-ABC123",
		BusinessName: "Loja da Ana",
		PackageID:    pkgID,
		Description:  "Tipo de Projeto: site",
		Status:       domain.StatusPendente,
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	assert.Nil(t, order.PlanID)

	signed := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	contract, err := s.CreateContract(ctx, &domain.NewContract{
		OrderID:            order.ID,
		UserID:             "u1",
		ContractNumber:     "CTR-20260101-ABC123",
		ClientName:         "Ana",
		ClientEmail:        "ana@example.com",
		ClientPhone:        "841234567",
		ServiceDescription: "Criação de site - Pacote Padrão",
		TotalValue:         pkgs[1].Price,
		DigitalSignature:   "Ana",
		SignedAt:           signed,
	})
	require.NoError(t, err)
	assert.True(t, contract.TermsAccepted)

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, pkgID, domain.StringOrEmpty(got.PackageID))

	byOrder, err := s.FindContract(ctx, domain.ContractLookup{OrderID: order.ID})
	require.NoError(t, err)
	require.NotNil(t, byOrder)
	assert.Equal(t, contract.ID, byOrder.ID)
	assert.Equal(t, 5999.0, byOrder.TotalValue)
	assert.True(t, byOrder.SignedAt.Equal(signed))

	byID, err := s.FindContract(ctx, domain.ContractLookup{ContractID: contract.ID})
	require.NoError(t, err)
	assert.Equal(t, "CTR-20260101-ABC123", byID.ContractNumber)

	none, err := s.FindContract(ctx, domain.ContractLookup{})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestOrders_ListingAndStatuses(t *testing.T) {
	ctx := context.Background()
	s := sqlstore.New(openDB(t))

	for i, user := range []string{"u1", "u2", "u1"} {
		_, err := s.CreateOrder(ctx, &domain.NewOrder{
			UserID:       user,
			OrderNumber:  fmt.Sprintf("PED-%d", i),
			BusinessName: "B",
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	mine, err := s.ListOrdersByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "PED-2", mine[0].OrderNumber, "newest first")

	recent, err := s.ListRecentOrders(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	statuses, err := s.ListOrderStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.OrderStatus{domain.StatusPendente, domain.StatusPendente, domain.StatusPendente}, statuses)
}

func TestOrders_DuplicateNumberRejected(t *testing.T) {
	ctx := context.Background()
	s := sqlstore.New(openDB(t))

	_, err := s.CreateOrder(ctx, &domain.NewOrder{UserID: "u1", OrderNumber: "PED-1", BusinessName: "B"})
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, &domain.NewOrder{UserID: "u1", OrderNumber: "PED-1", BusinessName: "B"})

	var ext *domain.ErrExternalService
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, "sqlstore/orders", ext.Service)
}

func TestProfilesAndRoles(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := sqlstore.New(db)

	_, err := s.CreateProfile(ctx, &domain.Profile{UserID: "u1", FullName: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	require.NoError(t, s.CreateRole(ctx, "u1", domain.RoleCliente))

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FullName)

	missing, err := s.GetProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	role, err := s.GetRole(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCliente, role.Role)
	assert.False(t, role.IsSupremeAdmin)

	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	roles, err := s.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestNavigationLogs(t *testing.T) {
	ctx := context.Background()
	s := sqlstore.New(openDB(t))

	for _, path := range []string{"/", "/planos", "/"} {
		require.NoError(t, s.InsertNavigationLog(ctx, &domain.NavigationLog{PagePath: path, SessionID: domain.OptionalString("sess")}))
	}

	paths, err := s.ListPagePaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/", "/", "/planos"}, paths)
}

func TestPing(t *testing.T) {
	assert.NoError(t, sqlstore.New(openDB(t)).Ping(context.Background()))
}
