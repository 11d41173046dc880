package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// ProfileStore: profiles and user_roles
// ============================================================

// CreateProfile inserts the profile row of a new account.
func (c *Client) CreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", p.UserID))

	data := map[string]any{
		"user_id":       p.UserID,
		"full_name":     p.FullName,
		"email":         p.Email,
		"phone":         p.Phone,
		"business_name": p.BusinessName,
		"business_type": p.BusinessType,
	}

	var created *domain.Profile
	err := c.write("supabase/profiles", func() error {
		body, err := c.doPost(ctx, "profiles", data)
		if err != nil {
			return err
		}
		created, err = decodeFirst[domain.Profile](body, "profiles")
		if err == nil && created == nil {
			err = fmt.Errorf("profiles insert returned no row")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetProfile fetches the profile of a user.
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var profile *domain.Profile
	err := c.read(ctx, "supabase/profiles", func() error {
		path := fmt.Sprintf("profiles?select=*&user_id=%s&limit=1", eq(userID))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		profile, err = decodeFirst[domain.Profile](body, "profiles")
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles fetches every profile, newest first.
func (c *Client) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProfiles")
	defer span.End()

	var profiles []domain.Profile
	err := c.read(ctx, "supabase/profiles", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "profiles?select=*&order=created_at.desc")
		if err != nil {
			return err
		}
		profiles, err = decodeAll[domain.Profile](body, "profiles")
		return err
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// CreateRole assigns a role to a user.
func (c *Client) CreateRole(ctx context.Context, userID string, role domain.Role) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRole")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("role", string(role)))

	return c.write("supabase/user_roles", func() error {
		_, err := c.doPost(ctx, "user_roles", map[string]any{
			"user_id": userID,
			"role":    role,
		})
		return err
	})
}

// GetRole fetches the role row of a user.
func (c *Client) GetRole(ctx context.Context, userID string) (*domain.UserRole, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRole")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var role *domain.UserRole
	err := c.read(ctx, "supabase/user_roles", func() error {
		path := fmt.Sprintf("user_roles?select=*&user_id=%s&limit=1", eq(userID))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		role, err = decodeFirst[domain.UserRole](body, "user_roles")
		return err
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles fetches every role row.
func (c *Client) ListRoles(ctx context.Context) ([]domain.UserRole, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRoles")
	defer span.End()

	var roles []domain.UserRole
	err := c.read(ctx, "supabase/user_roles", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "user_roles?select=*")
		if err != nil {
			return err
		}
		roles, err = decodeAll[domain.UserRole](body, "user_roles")
		return err
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}
