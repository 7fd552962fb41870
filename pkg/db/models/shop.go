package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopquill/shopquill-backend/pkg/enums"
)

// Shop is the tenant model: one row per connected storefront, keyed by its
// myshopify domain. UsageLimit is NULL for unlimited plans.
type Shop struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopDomain         string                   `gorm:"column:shop_domain;not null;uniqueIndex"`
	AccessToken        string                   `gorm:"column:access_token;not null"`
	SubscriptionStatus enums.SubscriptionStatus `gorm:"column:subscription_status;not null;default:'trial'"`
	PlanName           string                   `gorm:"column:plan_name;not null;default:'starter'"`
	UsageCount         int                      `gorm:"column:usage_count;not null;default:0"`
	UsageLimit         *int                     `gorm:"column:usage_limit"`
	InstalledAt        time.Time                `gorm:"column:installed_at;autoCreateTime"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// Unlimited reports whether the shop has no generation ceiling.
func (s *Shop) Unlimited() bool {
	return s.UsageLimit == nil
}

// QuotaExhausted reports whether the shop has consumed its full allowance.
func (s *Shop) QuotaExhausted() bool {
	return s.UsageLimit != nil && s.UsageCount >= *s.UsageLimit
}

// UsageRemaining returns how many generations are left, or nil for unlimited.
func (s *Shop) UsageRemaining() *int {
	if s.UsageLimit == nil {
		return nil
	}
	remaining := *s.UsageLimit - s.UsageCount
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
