package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopquill/shopquill-backend/pkg/db/models"
	"github.com/shopquill/shopquill-backend/pkg/enums"
)

// ShopDTO is the API-facing view of a shop. The access token never
// leaves the service layer.
type ShopDTO struct {
	ID                 uuid.UUID                `json:"id"`
	ShopDomain         string                   `json:"shopDomain"`
	SubscriptionStatus enums.SubscriptionStatus `json:"subscriptionStatus"`
	PlanName           string                   `json:"planName"`
	UsageCount         int                      `json:"usageCount"`
	UsageLimit         *int                     `json:"usageLimit"`
	UsageRemaining     *int                     `json:"usageRemaining"`
	InstalledAt        time.Time                `json:"installedAt"`
}

// FromModel maps a shop row to its DTO.
func FromModel(shop *models.Shop) *ShopDTO {
	if shop == nil {
		return nil
	}
	return &ShopDTO{
		ID:                 shop.ID,
		ShopDomain:         shop.ShopDomain,
		SubscriptionStatus: shop.SubscriptionStatus,
		PlanName:           shop.PlanName,
		UsageCount:         shop.UsageCount,
		UsageLimit:         shop.UsageLimit,
		UsageRemaining:     shop.UsageRemaining(),
		InstalledAt:        shop.InstalledAt,
	}
}
