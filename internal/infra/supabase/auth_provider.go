package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/jwtauth"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// AuthProvider: GoTrue sign-up / password grant
// ============================================================

// AuthProvider implements port.AuthProvider on top of GoTrue. Tokens are
// verified locally with the project JWT secret.
type AuthProvider struct {
	client    *Client
	jwtSecret []byte
}

// NewAuthProvider creates a GoTrue-backed auth provider.
func NewAuthProvider(client *Client, jwtSecret string) *AuthProvider {
	return &AuthProvider{client: client, jwtSecret: []byte(jwtSecret)}
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// gotrueSession is the body of /token and, with autoconfirm on, of /signup.
// With email confirmation on, /signup answers with the bare user instead.
type gotrueSession struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
	User        *gotrueUser `json:"user"`
	ID          string      `json:"id"`
	Email       string      `json:"email"`
}

func (s *gotrueSession) identity() (*domain.Identity, error) {
	id := &domain.Identity{AccessToken: s.AccessToken, ExpiresIn: s.ExpiresIn}
	switch {
	case s.User != nil:
		id.UserID, id.Email = s.User.ID, s.User.Email
	case s.ID != "":
		id.UserID, id.Email = s.ID, s.Email
	default:
		return nil, fmt.Errorf("gotrue response carries no user")
	}
	return id, nil
}

// SignUp creates an account. full_name travels as user metadata.
func (p *AuthProvider) SignUp(ctx context.Context, req *domain.SignUp) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignUp")
	defer span.End()

	payload := map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"data":     map[string]any{"full_name": req.FullName},
	}

	var identity *domain.Identity
	err := p.client.write("supabase/auth", func() error {
		body, err := p.client.doAuth(ctx, "signup", payload)
		if err != nil {
			return err
		}
		var sess gotrueSession
		if err := json.Unmarshal(body, &sess); err != nil {
			return fmt.Errorf("decode signup: %w", err)
		}
		identity, err = sess.identity()
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", identity.UserID))
	return identity, nil
}

// SignIn exchanges email and password for an access token.
func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignIn")
	defer span.End()

	payload := map[string]any{"email": email, "password": password}

	var identity *domain.Identity
	err := p.client.write("supabase/auth", func() error {
		body, err := p.client.doAuth(ctx, "token?grant_type=password", payload)
		if err != nil {
			return err
		}
		var sess gotrueSession
		if err := json.Unmarshal(body, &sess); err != nil {
			return fmt.Errorf("decode token: %w", err)
		}
		identity, err = sess.identity()
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", identity.UserID))
	return identity, nil
}

// VerifyToken validates a GoTrue access token.
func (p *AuthProvider) VerifyToken(token string) (*domain.Identity, error) {
	return jwtauth.Verify(p.jwtSecret, token)
}
