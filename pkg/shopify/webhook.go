package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Webhook topics the app subscribes to.
const (
	TopicAppUninstalled = "app/uninstalled"

	TopicHeader      = "X-Shopify-Topic"
	HMACHeader       = "X-Shopify-Hmac-Sha256"
	ShopDomainHeader = "X-Shopify-Shop-Domain"
)

// VerifyWebhookHMAC checks the base64 HMAC-SHA256 signature Shopify attaches
// to webhook deliveries against the shared webhook secret.
func VerifyWebhookHMAC(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
