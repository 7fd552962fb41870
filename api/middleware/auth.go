package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopquill/shopquill-backend/api/responses"
	"github.com/shopquill/shopquill-backend/pkg/config"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

// SessionAuth validates an embedded-app session token and seeds the request
// context with the shop it was issued for. Session tokens are HS256 JWTs
// signed with the app's API secret; the dest claim carries the shop origin.
func SessionAuth(cfg config.ShopifyConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			domain, err := verifySessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithShopDomain(r.Context(), domain)
			if logg != nil {
				ctx = logg.WithShopDomain(ctx, domain)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifySessionToken(cfg config.ShopifyConfig, token string) (string, error) {
	if cfg.APISecret == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session auth not configured")
	}

	parseOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.APIKey != "" {
		parseOpts = append(parseOpts, jwt.WithAudience(cfg.APIKey))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.APISecret), nil
	}, parseOpts...)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}

	dest, _ := claims["dest"].(string)
	domain := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(dest), "https://"))
	if !shopify.IsValidShopDomain(domain) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session token missing shop destination").
			WithDetails(map[string]any{"dest": fmt.Sprintf("%q", dest)})
	}
	return domain, nil
}
