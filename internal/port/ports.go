// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations (Supabase REST, GORM, Redis, S3).
package port

import (
	"context"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// CatalogStore reads packages and management plans.
type CatalogStore interface {
	// ListActivePackages returns active packages ordered by price ascending.
	ListActivePackages(ctx context.Context) ([]domain.Package, error)
	// ListActivePlans returns active plans ordered by monthly price ascending.
	ListActivePlans(ctx context.Context) ([]domain.ManagementPlan, error)
	// GetPackage returns nil, nil when no row matches.
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	// GetPlan returns nil, nil when no row matches.
	GetPlan(ctx context.Context, id string) (*domain.ManagementPlan, error)
}

// OrderStore persists orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *domain.NewOrder) (*domain.Order, error)
	// GetOrder returns nil, nil when no row matches.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	ListOrderStatuses(ctx context.Context) ([]domain.OrderStatus, error)
}

// ContractStore persists contracts. Contracts are insert-only.
type ContractStore interface {
	CreateContract(ctx context.Context, c *domain.NewContract) (*domain.Contract, error)
	// FindContract returns nil, nil when no row matches.
	FindContract(ctx context.Context, q domain.ContractLookup) (*domain.Contract, error)
}

// ProfileStore persists profiles and role assignments.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	// GetProfile returns nil, nil when the user has no profile row.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	CreateRole(ctx context.Context, userID string, role domain.Role) error
	// GetRole returns nil, nil when the user has no role row.
	GetRole(ctx context.Context, userID string) (*domain.UserRole, error)
	ListRoles(ctx context.Context) ([]domain.UserRole, error)
}

// AnalyticsStore persists navigation events.
type AnalyticsStore interface {
	InsertNavigationLog(ctx context.Context, l *domain.NavigationLog) error
	ListPagePaths(ctx context.Context) ([]string, error)
}

// Store groups every persistence port. Implemented by the Supabase adapter
// and by the GORM adapter.
type Store interface {
	CatalogStore
	OrderStore
	ContractStore
	ProfileStore
	AnalyticsStore
	Ping(ctx context.Context) error
}

// AuthProvider signs accounts up and in, and verifies bearer tokens.
type AuthProvider interface {
	SignUp(ctx context.Context, req *domain.SignUp) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	VerifyToken(token string) (*domain.Identity, error)
}

// ContractArchive stores rendered contract documents.
type ContractArchive interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}
