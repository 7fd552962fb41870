package generation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopquill/shopquill-backend/pkg/db/models"
	"github.com/shopquill/shopquill-backend/pkg/pagination"
)

// Repository is the append-only store for generation records. Records are
// created and read, never updated or deleted individually; history for a
// shop disappears only when the shop row is removed.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to generation record operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new generation record.
func (r *Repository) Create(ctx context.Context, record *models.GeneratedContent) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByID loads a generation record by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.GeneratedContent, error) {
	var record models.GeneratedContent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByShop returns a page of a shop's generation history, newest first,
// along with the cursor for the following page.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]models.GeneratedContent, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.GeneratedContent
	if err := query.Find(&records).Error; err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return records, nextCursor, nil
}
