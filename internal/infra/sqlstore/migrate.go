package sqlstore

import (
	"context"
	"fmt"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates every table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return nil
}

// Seed loads the built-in catalog tiers into empty catalog tables. Seeded
// rows get fresh ids; a non-empty table is left untouched.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&packageModel{}).Count(&count).Error; err != nil {
			return fmt.Errorf("sqlstore: count packages: %w", err)
		}
		if count == 0 {
			for _, p := range domain.FallbackPackages() {
				row := packageModel{
					ID:          newID(),
					Name:        p.Name,
					Price:       p.Price,
					Description: p.Description,
					Features:    encodeFeatures(p.Features),
					IsActive:    true,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("sqlstore: seed package %s: %w", p.Name, err)
				}
			}
			log.Info("sqlstore: seeded packages", zap.Int("count", len(domain.FallbackPackages())))
		}

		if err := tx.Model(&planModel{}).Count(&count).Error; err != nil {
			return fmt.Errorf("sqlstore: count plans: %w", err)
		}
		if count == 0 {
			for _, p := range domain.FallbackPlans() {
				row := planModel{
					ID:           newID(),
					Name:         p.Name,
					PriceMonthly: p.PriceMonthly,
					Description:  p.Description,
					Features:     encodeFeatures(p.Features),
					IsActive:     true,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("sqlstore: seed plan %s: %w", p.Name, err)
				}
			}
			log.Info("sqlstore: seeded management plans", zap.Int("count", len(domain.FallbackPlans())))
		}
		return nil
	})
}

// PromoteAdmin assigns the admin role to the account registered under email,
// optionally as the supreme admin.
func PromoteAdmin(ctx context.Context, db *gorm.DB, email string, supreme bool) error {
	var cred credentialModel
	if err := db.WithContext(ctx).Where("email = ?", email).Take(&cred).Error; err != nil {
		return fmt.Errorf("sqlstore: find account %s: %w", email, err)
	}

	res := db.WithContext(ctx).Model(&userRoleModel{}).
		Where("user_id = ?", cred.ID).
		Updates(map[string]any{"role": string(domain.RoleAdmin), "is_supreme_admin": supreme})
	if res.Error != nil {
		return fmt.Errorf("sqlstore: promote %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		row := userRoleModel{ID: newID(), UserID: cred.ID, Role: string(domain.RoleAdmin), IsSupremeAdmin: supreme}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("sqlstore: promote %s: %w", email, err)
		}
	}
	return nil
}
