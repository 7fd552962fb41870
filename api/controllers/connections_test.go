package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopquill/shopquill-backend/pkg/db/models"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type stubShopsService struct {
	ensured      map[string]string
	getErr       error
	listedShop   *models.Shop
	uninstallErr error
}

func (s *stubShopsService) Ensure(_ context.Context, domain, accessToken string) (*models.Shop, error) {
	if s.ensured == nil {
		s.ensured = map[string]string{}
	}
	s.ensured[domain] = accessToken
	return &models.Shop{ID: uuid.New(), ShopDomain: domain, AccessToken: accessToken}, nil
}

func (s *stubShopsService) GetByDomain(_ context.Context, domain string) (*models.Shop, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.listedShop != nil {
		return s.listedShop, nil
	}
	return &models.Shop{ID: uuid.New(), ShopDomain: domain, AccessToken: "stored-token"}, nil
}

func (s *stubShopsService) CheckQuota(*models.Shop) error { return nil }

func (s *stubShopsService) CommitUsage(context.Context, uuid.UUID) error { return nil }

func (s *stubShopsService) Uninstall(context.Context, string) error { return s.uninstallErr }

type stubShopFetcher struct {
	shop  *shopify.Shop
	err   error
	creds []shopify.Credentials
}

func (s *stubShopFetcher) GetShop(_ context.Context, creds shopify.Credentials) (*shopify.Shop, error) {
	s.creds = append(s.creds, creds)
	return s.shop, s.err
}

type stubCompletionTester struct {
	configured bool
	err        error
}

func (s *stubCompletionTester) Configured() bool { return s.configured }

func (s *stubCompletionTester) TestConnection(context.Context) error { return s.err }

func TestShopifyConnectionStoresToken(t *testing.T) {
	shopsSvc := &stubShopsService{}
	fetcher := &stubShopFetcher{shop: &shopify.Shop{Name: "Demo Store"}}
	handler := TestShopifyConnection(shopsSvc, fetcher, nil)

	body := bytes.NewBufferString(`{"accessToken":"shpat_new"}`)
	req := shopContext(httptest.NewRequest(http.MethodPost, "/api/connections/shopify/test", body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Demo Store")
	assert.Equal(t, "shpat_new", shopsSvc.ensured["demo.myshopify.com"])
	require.Len(t, fetcher.creds, 1)
	assert.Equal(t, "shpat_new", fetcher.creds[0].AccessToken)
}

func TestShopifyConnectionBadToken(t *testing.T) {
	shopsSvc := &stubShopsService{}
	fetcher := &stubShopFetcher{err: pkgerrors.New(pkgerrors.CodeStoreConnector, "storefront rejected credentials")}
	handler := TestShopifyConnection(shopsSvc, fetcher, nil)

	body := bytes.NewBufferString(`{"accessToken":"shpat_bad"}`)
	req := shopContext(httptest.NewRequest(http.MethodPost, "/api/connections/shopify/test", body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, shopsSvc.ensured)
}

func TestShopifyConnectionMissingToken(t *testing.T) {
	handler := TestShopifyConnection(&stubShopsService{}, &stubShopFetcher{}, nil)

	body := bytes.NewBufferString(`{}`)
	req := shopContext(httptest.NewRequest(http.MethodPost, "/api/connections/shopify/test", body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAIConnectionOK(t *testing.T) {
	handler := TestOpenAIConnection(&stubCompletionTester{configured: true}, nil)

	req := shopContext(httptest.NewRequest(http.MethodPost, "/api/connections/openai/test", nil))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "connected")
}

func TestOpenAIConnectionNotConfigured(t *testing.T) {
	handler := TestOpenAIConnection(&stubCompletionTester{configured: false}, nil)

	req := shopContext(httptest.NewRequest(http.MethodPost, "/api/connections/openai/test", nil))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOpenAIConnectionProviderFailure(t *testing.T) {
	handler := TestOpenAIConnection(&stubCompletionTester{
		configured: true,
		err:        pkgerrors.New(pkgerrors.CodeProviderUnavailable, "completion request failed"),
	}, nil)

	req := shopContext(httptest.NewRequest(http.MethodPost, "/api/connections/openai/test", nil))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
