package domain

// ============================================================
// Auth: Request / Response types (matches frontend API contract)
// ============================================================

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Name            string `json:"name" validate:"tmin=3,tmax=100" msg:"tmin=Nome deve ter pelo menos 3 caracteres;tmax=Nome muito longo"`
	Email           string `json:"email" validate:"temail" msg:"temail=Email inválido"`
	Password        string `json:"password" validate:"min=6" msg:"min=A senha deve ter pelo menos 6 caracteres."`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password" msg:"eqfield=As senhas não coincidem."`
	UserType        Role   `json:"userType"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"temail" msg:"temail=Email inválido"`
	Password string `json:"password" validate:"required" msg:"required=Senha é obrigatória"`
}

// SignUp is what the auth provider needs to create an account.
type SignUp struct {
	Email    string
	Password string
	FullName string
}

// Identity is an authenticated account as returned by the auth provider.
type Identity struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken,omitempty"`
	ExpiresIn   int    `json:"expiresIn,omitempty"`
}

// AuthResponse is the body for a successful login or registration.
type AuthResponse struct {
	AccessToken string `json:"accessToken,omitempty"`
	ExpiresIn   int    `json:"expiresIn,omitempty"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	Role        Role   `json:"role"`
	Message     string `json:"message,omitempty"`
	RedirectTo  string `json:"redirectTo"`
}

// Session is the auth context the SPA reads: who is logged in and with
// which role.
type Session struct {
	UserID         string   `json:"userId"`
	Email          string   `json:"email"`
	Role           Role     `json:"role"`
	IsSupremeAdmin bool     `json:"isSupremeAdmin"`
	Profile        *Profile `json:"profile,omitempty"`
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
