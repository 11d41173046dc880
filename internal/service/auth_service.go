package service

import (
	"context"
	"errors"
	"strings"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"
	"github.com/boddenberg/smartpresence-bfa-go/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

// Backend wording the auth providers use for the common rejections.
const (
	backendInvalidCredentials = "Invalid login credentials"
	backendAlreadyRegistered  = "User already registered"
)

// AuthService orchestrates sign-up, sign-in and session resolution.
type AuthService struct {
	provider  port.AuthProvider
	profiles  port.ProfileStore
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(provider port.AuthProvider, profiles port.ProfileStore, v *validation.Validator, logger *zap.Logger) *AuthService {
	return &AuthService{provider: provider, profiles: profiles, validator: v, logger: logger}
}

// ============================================================
// Register: POST /v1/auth/register
// ============================================================

// Register creates the account, then its profile and cliente role. Only
// clients register themselves; admins are promoted out of band.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if err := s.validator.Validate(req).Err(); err != nil {
		return nil, err
	}
	if req.UserType != "" && req.UserType != domain.RoleCliente {
		s.logger.Info("ignoring requested user type on self-registration", zap.String("user_type", string(req.UserType)))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	id, err := s.provider.SignUp(ctx, &domain.SignUp{Email: email, Password: req.Password, FullName: name})
	if err != nil {
		if backendMessage(err) == backendAlreadyRegistered {
			return nil, &domain.ErrConflict{Message: "Este email já está registado."}
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", id.UserID))

	if err := s.ensureProfile(ctx, id.UserID, name, email); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("user_id", id.UserID))

	return &domain.AuthResponse{
		AccessToken: id.AccessToken,
		ExpiresIn:   id.ExpiresIn,
		UserID:      id.UserID,
		Email:       email,
		FullName:    name,
		Role:        domain.RoleCliente,
		Message:     "Conta criada! Redirecionando para o login...",
		RedirectTo:  "/login",
	}, nil
}

// ensureProfile writes the profile and role rows unless a database trigger
// already did.
func (s *AuthService) ensureProfile(ctx context.Context, userID, name, email string) error {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		if _, err := s.profiles.CreateProfile(ctx, &domain.Profile{UserID: userID, FullName: name, Email: email}); err != nil {
			return err
		}
	}

	role, err := s.profiles.GetRole(ctx, userID)
	if err != nil {
		return err
	}
	if role == nil {
		return s.profiles.CreateRole(ctx, userID, domain.RoleCliente)
	}
	return nil
}

// ============================================================
// Login: POST /v1/auth/login
// ============================================================

// Login signs in and picks the landing page from the account's role.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if err := s.validator.Validate(req).Err(); err != nil {
		return nil, err
	}

	id, err := s.provider.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if backendMessage(err) == backendInvalidCredentials {
			return nil, &domain.ErrUnauthorized{Message: "Email ou senha incorrectos."}
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", id.UserID))

	role, err := s.profiles.GetRole(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	resp := &domain.AuthResponse{
		AccessToken: id.AccessToken,
		ExpiresIn:   id.ExpiresIn,
		UserID:      id.UserID,
		Email:       id.Email,
		Role:        domain.RoleCliente,
		Message:     "Login bem-sucedido! Bem-vindo de volta.",
		RedirectTo:  "/cliente",
	}
	if role != nil && role.Role == domain.RoleAdmin {
		resp.Role = domain.RoleAdmin
		resp.RedirectTo = "/admin"
	}
	return resp, nil
}

// ============================================================
// Sessions
// ============================================================

// Authenticate verifies a bearer token and loads the account's role. An
// account without a role row is a cliente.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	id, err := s.provider.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{UserID: id.UserID, Email: id.Email, Role: domain.RoleCliente}
	role, err := s.profiles.GetRole(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if role != nil {
		sess.Role = role.Role
		sess.IsSupremeAdmin = role.IsSupremeAdmin
	}
	return sess, nil
}

// Describe adds the profile to an authenticated session.
func (s *AuthService) Describe(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Describe")
	defer span.End()

	profile, err := s.profiles.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	out := *sess
	out.Profile = profile
	return &out, nil
}

// backendMessage returns the raw backend message carried by err, if any.
func backendMessage(err error) string {
	var be *domain.ErrBackend
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}
