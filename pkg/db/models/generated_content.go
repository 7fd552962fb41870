package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopquill/shopquill-backend/pkg/enums"
)

// GeneratedContent is one immutable record of a completed generation.
// Corrections create a new row; existing rows are never updated.
type GeneratedContent struct {
	ID                  uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID              uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;index"`
	ProductID           string              `gorm:"column:product_id;not null"`
	ProductTitle        string              `gorm:"column:product_title;not null"`
	OriginalDescription *string             `gorm:"column:original_description"`
	GeneratedText       string              `gorm:"column:generated_text;not null"`
	ContentType         enums.ContentType   `gorm:"column:content_type;not null;default:'description'"`
	Tone                enums.Tone          `gorm:"column:tone;not null"`
	TargetLength        enums.ContentLength `gorm:"column:target_length;not null"`
	Keywords            pq.StringArray      `gorm:"column:keywords;type:text[]"`
	TokensUsed          int                 `gorm:"column:tokens_used;not null"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
}
