package controllers

import (
	"context"
	"net/http"

	"github.com/shopquill/shopquill-backend/api/middleware"
	"github.com/shopquill/shopquill-backend/api/responses"
	"github.com/shopquill/shopquill-backend/api/validators"
	"github.com/shopquill/shopquill-backend/internal/shops"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type shopFetcher interface {
	GetShop(ctx context.Context, creds shopify.Credentials) (*shopify.Shop, error)
}

type completionTester interface {
	Configured() bool
	TestConnection(ctx context.Context) error
}

type testShopifyConnectionRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// TestShopifyConnection verifies the supplied token against the storefront
// API and stores it for the authenticated shop on success.
func TestShopifyConnection(shopsSvc shops.Service, store shopFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if shopsSvc == nil || store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection testing unavailable"))
			return
		}

		domain := middleware.ShopDomainFromContext(r.Context())
		if domain == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		var payload testShopifyConnectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		creds := shopify.Credentials{ShopDomain: domain, AccessToken: payload.AccessToken}
		storefront, err := store.GetShop(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shop, err := shopsSvc.Ensure(r.Context(), domain, payload.AccessToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"connected": true,
			"shop":      shops.FromModel(shop),
			"storeName": storefront.Name,
		})
	}
}

// TestOpenAIConnection runs a minimal completion to confirm the provider key works.
func TestOpenAIConnection(provider completionTester, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection testing unavailable"))
			return
		}

		if !provider.Configured() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeProviderNotConfigured, "completion provider is not configured"))
			return
		}

		if err := provider.TestConnection(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"connected": true})
	}
}
