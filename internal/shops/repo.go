package shops

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopquill/shopquill-backend/pkg/db/models"
)

// Repository handles shop persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shop operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new shop row.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) error {
	if shop == nil {
		return fmt.Errorf("shop is required")
	}
	return r.db.WithContext(ctx).Create(shop).Error
}

// FindByID loads a shop by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByDomain loads a shop by its myshopify domain.
func (r *Repository) FindByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("shop_domain = ?", domain).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// UpdateAccessToken replaces the stored API token for a shop.
func (r *Repository) UpdateAccessToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", id).
		Update("access_token", token).Error
}

// CommitUsage atomically increments a shop's usage counter, but only while
// the counter is below the shop's limit. A NULL limit never blocks the
// increment. Returns false when the ceiling was already reached, which is
// how concurrent requests racing for the last unit are serialized.
func (r *Repository) CommitUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteByDomain removes a shop and, via the FK cascade, its generation
// history. Deleting an unknown domain is a no-op.
func (r *Repository) DeleteByDomain(ctx context.Context, domain string) error {
	return r.db.WithContext(ctx).Where("shop_domain = ?", domain).Delete(&models.Shop{}).Error
}
