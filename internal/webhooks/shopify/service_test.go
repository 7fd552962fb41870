package shopifywebhook

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopquill/shopquill-backend/pkg/db/models"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type stubShops struct {
	uninstalled  []string
	uninstallErr error
}

func (s *stubShops) Ensure(_ context.Context, _ string, _ string) (*models.Shop, error) {
	return nil, nil
}

func (s *stubShops) GetByDomain(_ context.Context, _ string) (*models.Shop, error) {
	return nil, nil
}

func (s *stubShops) CheckQuota(_ *models.Shop) error { return nil }

func (s *stubShops) CommitUsage(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubShops) Uninstall(_ context.Context, domain string) error {
	s.uninstalled = append(s.uninstalled, domain)
	return s.uninstallErr
}

func newTestService(t *testing.T, shops *stubShops) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Shops:  shops,
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	require.NoError(t, err)
	return svc
}

func TestHandleEventAppUninstalled(t *testing.T) {
	shops := &stubShops{}
	svc := newTestService(t, shops)

	err := svc.HandleEvent(context.Background(), shopify.TopicAppUninstalled, "bye.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"bye.myshopify.com"}, shops.uninstalled)
}

func TestHandleEventUnknownTopicAcked(t *testing.T) {
	shops := &stubShops{}
	svc := newTestService(t, shops)

	err := svc.HandleEvent(context.Background(), "orders/create", "shop.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, shops.uninstalled)
}

func TestHandleEventRequiresShopDomain(t *testing.T) {
	svc := newTestService(t, &stubShops{})

	err := svc.HandleEvent(context.Background(), shopify.TopicAppUninstalled, "")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{Shops: &stubShops{}})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Logger: logger.New(logger.Options{ServiceName: "test"})})
	assert.Error(t, err)
}
