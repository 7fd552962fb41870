package webhooks

import (
	"io"
	"net/http"

	"github.com/shopquill/shopquill-backend/api/responses"
	shopifywebhook "github.com/shopquill/shopquill-backend/internal/webhooks/shopify"
	"github.com/shopquill/shopquill-backend/pkg/config"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
	"github.com/shopquill/shopquill-backend/pkg/logger"
	"github.com/shopquill/shopquill-backend/pkg/shopify"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// Shopify receives platform webhook deliveries. The signature is verified
// against the raw body before anything else looks at the payload.
func Shopify(svc *shopifywebhook.Service, cfg config.ShopifyConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read webhook body"))
			return
		}

		if !shopify.VerifyWebhookHMAC(cfg.WebhookSecret, body, r.Header.Get(shopify.HMACHeader)) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch"))
			return
		}

		topic := r.Header.Get(shopify.TopicHeader)
		domain := r.Header.Get(shopify.ShopDomainHeader)
		if err := svc.HandleEvent(r.Context(), topic, domain); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "processed"})
	}
}
