package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"
)

var _ port.Store = (*fakeStore)(nil)

// fakeStore is an in-memory port.Store. The err fields make the matching
// calls fail; calls records every method invoked, in order.
type fakeStore struct {
	mu sync.Mutex

	packages  []domain.Package
	plans     []domain.ManagementPlan
	orders    []domain.Order
	contracts []domain.Contract
	profiles  []domain.Profile
	roles     []domain.UserRole
	navLogs   []domain.NavigationLog

	catalogErr   error
	orderErr     error
	contractErr  error
	readErr      error
	navErr       error
	catalogCalls int
	calls        []string
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeStore) ListActivePackages(context.Context) ([]domain.Package, error) {
	f.record("ListActivePackages")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	return f.packages, f.catalogErr
}

func (f *fakeStore) ListActivePlans(context.Context) ([]domain.ManagementPlan, error) {
	f.record("ListActivePlans")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	return f.plans, f.catalogErr
}

func (f *fakeStore) GetPackage(_ context.Context, id string) (*domain.Package, error) {
	f.record("GetPackage")
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	for i := range f.packages {
		if f.packages[i].ID == id {
			return &f.packages[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetPlan(_ context.Context, id string) (*domain.ManagementPlan, error) {
	f.record("GetPlan")
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	for i := range f.plans {
		if f.plans[i].ID == id {
			return &f.plans[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o *domain.NewOrder) (*domain.Order, error) {
	f.record("CreateOrder")
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row := domain.Order{
		ID:           fmt.Sprintf("order-%d", len(f.orders)+1),
		UserID:       o.UserID,
		OrderNumber:  o.OrderNumber,
		BusinessName: o.BusinessName,
		BusinessType: domain.OptionalString(o.BusinessType),
		PackageID:    domain.OptionalString(o.PackageID),
		PlanID:       domain.OptionalString(o.PlanID),
		Description:  domain.OptionalString(o.Description),
		Preferences:  domain.OptionalString(o.Preferences),
		Status:       o.Status,
		CreatedAt:    time.Now(),
	}
	f.orders = append(f.orders, row)
	return &row, nil
}

func (f *fakeStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	f.record("GetOrder")
	if f.readErr != nil {
		return nil, f.readErr
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListOrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	f.record("ListOrdersByUser")
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []domain.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecentOrders(_ context.Context, limit int) ([]domain.Order, error) {
	f.record("ListRecentOrders")
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []domain.Order
	for i := len(f.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.orders[i])
	}
	return out, nil
}

func (f *fakeStore) ListOrderStatuses(context.Context) ([]domain.OrderStatus, error) {
	f.record("ListOrderStatuses")
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]domain.OrderStatus, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o.Status)
	}
	return out, nil
}

func (f *fakeStore) CreateContract(_ context.Context, c *domain.NewContract) (*domain.Contract, error) {
	f.record("CreateContract")
	if f.contractErr != nil {
		return nil, f.contractErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	signed := c.SignedAt
	row := domain.Contract{
		ID:                 fmt.Sprintf("contract-%d", len(f.contracts)+1),
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
		SignedAt:           &signed,
		CreatedAt:          signed,
	}
	f.contracts = append(f.contracts, row)
	return &row, nil
}

func (f *fakeStore) FindContract(_ context.Context, q domain.ContractLookup) (*domain.Contract, error) {
	f.record("FindContract")
	if f.readErr != nil {
		return nil, f.readErr
	}
	for i := range f.contracts {
		c := f.contracts[i]
		if (q.ContractID != "" && c.ID == q.ContractID) || (q.ContractID == "" && q.OrderID != "" && c.OrderID == q.OrderID) {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	f.record("CreateProfile")
	f.mu.Lock()
	defer f.mu.Unlock()
	row := *p
	row.ID = fmt.Sprintf("profile-%d", len(f.profiles)+1)
	f.profiles = append(f.profiles, row)
	return &row, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	f.record("GetProfile")
	if f.readErr != nil {
		return nil, f.readErr
	}
	for i := range f.profiles {
		if f.profiles[i].UserID == userID {
			p := f.profiles[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListProfiles(context.Context) ([]domain.Profile, error) {
	f.record("ListProfiles")
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.profiles, nil
}

func (f *fakeStore) CreateRole(_ context.Context, userID string, role domain.Role) error {
	f.record("CreateRole")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = append(f.roles, domain.UserRole{ID: fmt.Sprintf("role-%d", len(f.roles)+1), UserID: userID, Role: role})
	return nil
}

func (f *fakeStore) GetRole(_ context.Context, userID string) (*domain.UserRole, error) {
	f.record("GetRole")
	if f.readErr != nil {
		return nil, f.readErr
	}
	for i := range f.roles {
		if f.roles[i].UserID == userID {
			r := f.roles[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListRoles(context.Context) ([]domain.UserRole, error) {
	f.record("ListRoles")
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.roles, nil
}

func (f *fakeStore) InsertNavigationLog(ctx context.Context, l *domain.NavigationLog) error {
	f.record("InsertNavigationLog")
	if f.navErr != nil {
		return f.navErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navLogs = append(f.navLogs, *l)
	return nil
}

func (f *fakeStore) ListPagePaths(context.Context) ([]string, error) {
	f.record("ListPagePaths")
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]string, 0, len(f.navLogs))
	for _, l := range f.navLogs {
		out = append(out, l.PagePath)
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) called(name string) bool {
	for _, c := range f.callNames() {
		if c == name {
			return true
		}
	}
	return false
}

var errBoom = errors.New("boom")

// fakeArchive records stored objects.
type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Put(_ context.Context, key, _ string, _ []byte) error {
	if a.err != nil {
		return a.err
	}
	a.keys = append(a.keys, key)
	return nil
}

// fakeAuth is a port.AuthProvider keyed by email.
type fakeAuth struct {
	users     map[string]string // email -> password
	signUpErr error
	tokens    map[string]*domain.Identity
}

func (a *fakeAuth) SignUp(_ context.Context, req *domain.SignUp) (*domain.Identity, error) {
	if a.signUpErr != nil {
		return nil, a.signUpErr
	}
	if a.users == nil {
		a.users = map[string]string{}
	}
	a.users[req.Email] = req.Password
	return &domain.Identity{UserID: "uid-" + req.Email, Email: req.Email, AccessToken: "tok", ExpiresIn: 3600}, nil
}

func (a *fakeAuth) SignIn(_ context.Context, email, password string) (*domain.Identity, error) {
	if pw, ok := a.users[email]; !ok || pw != password {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: &domain.ErrBackend{Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"}}
	}
	return &domain.Identity{UserID: "uid-" + email, Email: email, AccessToken: "tok", ExpiresIn: 3600}, nil
}

func (a *fakeAuth) VerifyToken(token string) (*domain.Identity, error) {
	if id, ok := a.tokens[token]; ok {
		return id, nil
	}
	return nil, &domain.ErrUnauthorized{Message: "Token inválido", RedirectTo: "/login"}
}
