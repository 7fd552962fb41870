package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopquill/shopquill-backend/api/middleware"
	"github.com/shopquill/shopquill-backend/api/responses"
	"github.com/shopquill/shopquill-backend/api/validators"
	"github.com/shopquill/shopquill-backend/internal/shops"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

type productLister interface {
	ListProducts(ctx context.Context, creds shopify.Credentials, query shopify.ListProductsQuery) ([]shopify.Product, error)
}

// ListProducts proxies the authenticated shop's product list from the storefront.
func ListProducts(shopsSvc shops.Service, store productLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if shopsSvc == nil || store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product listing unavailable"))
			return
		}

		domain := middleware.ShopDomainFromContext(r.Context())
		if domain == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		shop, err := shopsSvc.GetByDomain(r.Context(), domain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 250)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := shopify.ListProductsQuery{
			Limit:  limit,
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("since_id")); raw != "" {
			sinceID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": "since_id"}))
				return
			}
			query.SinceID = sinceID
		}

		creds := shopify.Credentials{ShopDomain: shop.ShopDomain, AccessToken: shop.AccessToken}
		products, err := store.ListProducts(r.Context(), creds, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}
