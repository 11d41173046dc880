package sqlstore

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/jwtauth"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// Rejections use the hosted auth service wording so callers map both
// providers the same way.
const (
	msgInvalidCredentials = "Invalid login credentials"
	msgAlreadyRegistered  = "User already registered"
)

// AuthProvider implements port.AuthProvider with bcrypt-hashed credentials
// and self-signed HS256 tokens.
type AuthProvider struct {
	db        *gorm.DB
	jwtSecret []byte
	accessTTL time.Duration
}

// NewAuthProvider creates a local auth provider.
func NewAuthProvider(db *gorm.DB, jwtSecret string, accessTTL time.Duration) *AuthProvider {
	return &AuthProvider{db: db, jwtSecret: []byte(jwtSecret), accessTTL: accessTTL}
}

// SignUp creates an account and signs it in.
func (p *AuthProvider) SignUp(ctx context.Context, req *domain.SignUp) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "SQL.SignUp")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	if err := p.db.WithContext(ctx).Model(&credentialModel{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, storeErr("auth_users", err)
	}
	if existing > 0 {
		return nil, &domain.ErrBackend{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: msgAlreadyRegistered}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	row := credentialModel{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storeErr("auth_users", err)
	}

	return p.issue(row.ID, row.Email)
}

// SignIn checks the password and issues an access token.
func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "SQL.SignIn")
	defer span.End()

	var row credentialModel
	err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrBackend{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: msgInvalidCredentials}
	}
	if err != nil {
		return nil, storeErr("auth_users", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, &domain.ErrBackend{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: msgInvalidCredentials}
	}

	return p.issue(row.ID, row.Email)
}

// VerifyToken validates a self-issued access token.
func (p *AuthProvider) VerifyToken(token string) (*domain.Identity, error) {
	return jwtauth.Verify(p.jwtSecret, token)
}

func (p *AuthProvider) issue(userID, email string) (*domain.Identity, error) {
	token, err := jwtauth.Sign(p.jwtSecret, userID, email, p.accessTTL)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{
		UserID:      userID,
		Email:       email,
		AccessToken: token,
		ExpiresIn:   int(p.accessTTL.Seconds()),
	}, nil
}
