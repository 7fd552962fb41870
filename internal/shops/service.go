package shops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopquill/shopquill-backend/pkg/config"
	"github.com/shopquill/shopquill-backend/pkg/db"
	"github.com/shopquill/shopquill-backend/pkg/db/models"
	"github.com/shopquill/shopquill-backend/pkg/enums"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type shopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByDomain(ctx context.Context, domain string) (*models.Shop, error)
	UpdateAccessToken(ctx context.Context, id uuid.UUID, token string) error
	CommitUsage(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByDomain(ctx context.Context, domain string) error
}

// Service exposes shop lifecycle and usage accounting operations.
type Service interface {
	Ensure(ctx context.Context, domain, accessToken string) (*models.Shop, error)
	GetByDomain(ctx context.Context, domain string) (*models.Shop, error)
	CheckQuota(shop *models.Shop) error
	CommitUsage(ctx context.Context, id uuid.UUID) error
	Uninstall(ctx context.Context, domain string) error
}

type service struct {
	repo     shopRepository
	usageCfg config.UsageConfig
}

// NewService builds a shop service with the provided repository.
func NewService(repo shopRepository, usageCfg config.UsageConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo, usageCfg: usageCfg}, nil
}

// Ensure returns the shop for the given domain, creating it on first use
// with the configured default usage limit. A stale stored token is
// refreshed when the caller presents a different one.
func (s *service) Ensure(ctx context.Context, domain, accessToken string) (*models.Shop, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !shopify.IsValidShopDomain(domain) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop domain")
	}

	shop, err := s.repo.FindByDomain(ctx, domain)
	if err == nil {
		if accessToken != "" && shop.AccessToken != accessToken {
			if err := s.repo.UpdateAccessToken(ctx, shop.ID, accessToken); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update access token")
			}
			shop.AccessToken = accessToken
		}
		return shop, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}

	shop = &models.Shop{
		ShopDomain:         domain,
		AccessToken:        accessToken,
		SubscriptionStatus: enums.SubscriptionStatusTrial,
		UsageLimit:         s.defaultLimit(),
		InstalledAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		// Another request provisioned the same domain first; adopt its row.
		if db.IsUniqueViolation(err, "") {
			return s.repo.FindByDomain(ctx, domain)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shop")
	}
	return shop, nil
}

func (s *service) GetByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	shop, err := s.repo.FindByDomain(ctx, strings.ToLower(strings.TrimSpace(domain)))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	return shop, nil
}

// CheckQuota is the cheap pre-flight gate. It can pass while a concurrent
// request takes the last unit, so CommitUsage remains the authority.
func (s *service) CheckQuota(shop *models.Shop) error {
	if shop == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	if shop.QuotaExhausted() {
		return pkgerrors.New(pkgerrors.CodeQuotaExhausted, "monthly generation limit reached")
	}
	return nil
}

func (s *service) CommitUsage(ctx context.Context, id uuid.UUID) error {
	committed, err := s.repo.CommitUsage(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit usage")
	}
	if !committed {
		return pkgerrors.New(pkgerrors.CodeQuotaExhausted, "monthly generation limit reached")
	}
	return nil
}

func (s *service) Uninstall(ctx context.Context, domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop domain is required")
	}
	if err := s.repo.DeleteByDomain(ctx, domain); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete shop")
	}
	return nil
}

func (s *service) defaultLimit() *int {
	if s.usageCfg.DefaultLimit <= 0 {
		return nil
	}
	limit := s.usageCfg.DefaultLimit
	return &limit
}
