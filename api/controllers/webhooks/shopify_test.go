package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shopifywebhook "github.com/shopquill/shopquill-backend/internal/webhooks/shopify"
	"github.com/shopquill/shopquill-backend/pkg/config"
	"github.com/shopquill/shopquill-backend/pkg/db/models"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

const testWebhookSecret = "webhook-secret"

type stubShops struct {
	uninstalled []string
}

func (s *stubShops) Ensure(_ context.Context, domain, _ string) (*models.Shop, error) {
	return &models.Shop{ShopDomain: domain}, nil
}

func (s *stubShops) GetByDomain(_ context.Context, domain string) (*models.Shop, error) {
	return &models.Shop{ShopDomain: domain}, nil
}

func (s *stubShops) CheckQuota(*models.Shop) error { return nil }

func (s *stubShops) CommitUsage(context.Context, uuid.UUID) error { return nil }

func (s *stubShops) Uninstall(_ context.Context, domain string) error {
	s.uninstalled = append(s.uninstalled, domain)
	return nil
}

func signWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookHandler(t *testing.T, shops *stubShops) http.HandlerFunc {
	t.Helper()
	svc, err := shopifywebhook.NewService(shopifywebhook.ServiceParams{
		Shops:  shops,
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	require.NoError(t, err)
	return Shopify(svc, config.ShopifyConfig{WebhookSecret: testWebhookSecret}, nil)
}

func TestShopifyWebhookUninstall(t *testing.T) {
	shops := &stubShops{}
	handler := webhookHandler(t, shops)

	body := []byte(`{"id":12345}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set(shopify.HMACHeader, signWebhook(testWebhookSecret, body))
	req.Header.Set(shopify.TopicHeader, shopify.TopicAppUninstalled)
	req.Header.Set(shopify.ShopDomainHeader, "demo.myshopify.com")

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "processed")
	assert.Equal(t, []string{"demo.myshopify.com"}, shops.uninstalled)
}

func TestShopifyWebhookBadSignature(t *testing.T) {
	shops := &stubShops{}
	handler := webhookHandler(t, shops)

	body := []byte(`{"id":12345}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set(shopify.HMACHeader, signWebhook("wrong-secret", body))
	req.Header.Set(shopify.TopicHeader, shopify.TopicAppUninstalled)
	req.Header.Set(shopify.ShopDomainHeader, "demo.myshopify.com")

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, shops.uninstalled)
}

func TestShopifyWebhookUnknownTopicAcked(t *testing.T) {
	shops := &stubShops{}
	handler := webhookHandler(t, shops)

	body := []byte(`{"id":12345}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set(shopify.HMACHeader, signWebhook(testWebhookSecret, body))
	req.Header.Set(shopify.TopicHeader, "orders/create")
	req.Header.Set(shopify.ShopDomainHeader, "demo.myshopify.com")

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, shops.uninstalled)
}

func TestShopifyWebhookMissingDomain(t *testing.T) {
	shops := &stubShops{}
	handler := webhookHandler(t, shops)

	body := []byte(`{"id":12345}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set(shopify.HMACHeader, signWebhook(testWebhookSecret, body))
	req.Header.Set(shopify.TopicHeader, shopify.TopicAppUninstalled)

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, shops.uninstalled)
}
