package shopifywebhook

import (
	"context"

	"github.com/shopquill/shopquill-backend/internal/shops"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type ServiceParams struct {
	Shops  shops.Service
	Logger *logger.Logger
}

// Service processes Shopify platform webhooks. Unrecognized topics are
// acknowledged so Shopify does not retry them forever.
type Service struct {
	shops shops.Service
	logg  *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Shops == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shops service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{shops: params.Shops, logg: params.Logger}, nil
}

// HandleEvent dispatches one verified webhook delivery by topic.
func (s *Service) HandleEvent(ctx context.Context, topic, shopDomain string) error {
	if shopDomain == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop domain header required")
	}
	ctx = s.logg.WithShopDomain(ctx, shopDomain)

	switch topic {
	case shopify.TopicAppUninstalled:
		if err := s.shops.Uninstall(ctx, shopDomain); err != nil {
			return err
		}
		s.logg.Info(ctx, "shop uninstalled, tenant data removed")
		return nil
	default:
		s.logg.Debug(ctx, "ignoring unhandled webhook topic")
		return nil
	}
}
