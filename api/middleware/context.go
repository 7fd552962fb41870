package middleware

import "context"

type contextKey string

const ctxShopDomain contextKey = "shop_domain"

// ShopDomainFromContext returns the authenticated shop's myshopify domain,
// or "" when the request is unauthenticated.
func ShopDomainFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShopDomain).(string); ok {
		return v
	}
	return ""
}

// WithShopDomain injects the shop domain into the context.
func WithShopDomain(ctx context.Context, domain string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxShopDomain, domain)
}
