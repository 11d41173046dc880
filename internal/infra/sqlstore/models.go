package sqlstore

import (
	"encoding/json"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"gorm.io/datatypes"
)

// Persistence models mirror the hosted schema column for column.

type profileModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	UserID       string  `gorm:"uniqueIndex;size:36;not null"`
	FullName     string  `gorm:"size:255;not null"`
	Email        string  `gorm:"size:255;not null"`
	Phone        *string `gorm:"size:50"`
	BusinessName *string `gorm:"size:255"`
	BusinessType *string `gorm:"size:100"`
	AvatarURL    *string
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (profileModel) TableName() string { return "profiles" }

func (m *profileModel) toDomain() domain.Profile {
	return domain.Profile{
		ID:           m.ID,
		UserID:       m.UserID,
		FullName:     m.FullName,
		Email:        m.Email,
		Phone:        m.Phone,
		BusinessName: m.BusinessName,
		BusinessType: m.BusinessType,
		AvatarURL:    m.AvatarURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type userRoleModel struct {
	ID             string `gorm:"primaryKey;size:36"`
	UserID         string `gorm:"uniqueIndex;size:36;not null"`
	Role           string `gorm:"size:20;not null;default:cliente"`
	IsSupremeAdmin bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

func (userRoleModel) TableName() string { return "user_roles" }

func (m *userRoleModel) toDomain() domain.UserRole {
	return domain.UserRole{
		ID:             m.ID,
		UserID:         m.UserID,
		Role:           domain.Role(m.Role),
		IsSupremeAdmin: m.IsSupremeAdmin,
		CreatedAt:      m.CreatedAt,
	}
}

type packageModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"size:100;not null"`
	Price       float64 `gorm:"not null"`
	Description *string
	Features    datatypes.JSON
	IsActive    bool `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
}

func (packageModel) TableName() string { return "packages" }

func (m *packageModel) toDomain() (domain.Package, error) {
	features, err := decodeFeatures(m.Features)
	return domain.Package{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Description: m.Description,
		Features:    features,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}, err
}

type planModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Name         string  `gorm:"size:100;not null"`
	PriceMonthly float64 `gorm:"not null"`
	Description  *string
	Features     datatypes.JSON
	IsActive     bool `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
}

func (planModel) TableName() string { return "management_plans" }

func (m *planModel) toDomain() (domain.ManagementPlan, error) {
	features, err := decodeFeatures(m.Features)
	return domain.ManagementPlan{
		ID:           m.ID,
		Name:         m.Name,
		PriceMonthly: m.PriceMonthly,
		Description:  m.Description,
		Features:     features,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}, err
}

func decodeFeatures(raw datatypes.JSON) (domain.Features, error) {
	f := domain.Features{}
	if len(raw) == 0 {
		return f, nil
	}
	err := json.Unmarshal(raw, &f)
	return f, err
}

func encodeFeatures(f []string) datatypes.JSON {
	if f == nil {
		f = []string{}
	}
	b, _ := json.Marshal(f)
	return datatypes.JSON(b)
}

type orderModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	UserID       string  `gorm:"size:36;not null;index"`
	OrderNumber  string  `gorm:"size:40;not null;uniqueIndex"`
	BusinessName string  `gorm:"size:255;not null"`
	BusinessType *string `gorm:"size:100"`
	PackageID    *string `gorm:"size:36"`
	PlanID       *string `gorm:"size:36"`
	Description  *string
	Preferences  *string
	Notes        *string
	Status       string `gorm:"size:20;not null;default:pendente;index"`
	DemoURL      *string
	FinalURL     *string
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (orderModel) TableName() string { return "orders" }

func (m *orderModel) toDomain() domain.Order {
	return domain.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		OrderNumber:  m.OrderNumber,
		BusinessName: m.BusinessName,
		BusinessType: m.BusinessType,
		PackageID:    m.PackageID,
		PlanID:       m.PlanID,
		Description:  m.Description,
		Preferences:  m.Preferences,
		Notes:        m.Notes,
		Status:       domain.OrderStatus(m.Status),
		DemoURL:      m.DemoURL,
		FinalURL:     m.FinalURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type contractModel struct {
	ID                 string  `gorm:"primaryKey;size:36"`
	OrderID            string  `gorm:"size:36;not null;index"`
	UserID             string  `gorm:"size:36;not null;index"`
	ContractNumber     string  `gorm:"size:40;not null;uniqueIndex"`
	ClientName         string  `gorm:"size:255;not null"`
	ClientEmail        string  `gorm:"size:255;not null"`
	ClientPhone        *string `gorm:"size:50"`
	ServiceDescription string  `gorm:"not null"`
	TotalValue         float64 `gorm:"not null"`
	TermsAccepted      bool    `gorm:"not null"`
	DigitalSignature   *string
	SignedAt           *time.Time
	CreatedAt          time.Time
}

func (contractModel) TableName() string { return "contracts" }

func (m *contractModel) toDomain() domain.Contract {
	return domain.Contract{
		ID:                 m.ID,
		OrderID:            m.OrderID,
		UserID:             m.UserID,
		ContractNumber:     m.ContractNumber,
		ClientName:         m.ClientName,
		ClientEmail:        m.ClientEmail,
		ClientPhone:        m.ClientPhone,
		ServiceDescription: m.ServiceDescription,
		TotalValue:         m.TotalValue,
		TermsAccepted:      m.TermsAccepted,
		DigitalSignature:   m.DigitalSignature,
		SignedAt:           m.SignedAt,
		CreatedAt:          m.CreatedAt,
	}
}

type navigationLogModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	PagePath  string `gorm:"size:500;not null;index"`
	PageTitle *string
	Referrer  *string
	UserAgent *string
	SessionID *string `gorm:"size:64"`
	UserID    *string `gorm:"size:36"`
	IPAddress *string `gorm:"size:64"`
	CreatedAt time.Time
}

func (navigationLogModel) TableName() string { return "navigation_logs" }

// credentialModel backs the local auth provider. It plays the role of the
// hosted auth.users table.
type credentialModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FullName     string `gorm:"size:255"`
	CreatedAt    time.Time
}

func (credentialModel) TableName() string { return "auth_users" }

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&credentialModel{},
		&profileModel{},
		&userRoleModel{},
		&packageModel{},
		&planModel{},
		&orderModel{},
		&contractModel{},
		&navigationLogModel{},
	}
}
