package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
)

const (
	defaultAPIVersion          = "2023-10"
	tokenHeader                = "X-Shopify-Access-Token"
	errorBodyReadLimit   int64 = 2048
	defaultListPageLimit       = 50
)

var errDomainRequired = errors.New("shop domain is required")

// Credentials authenticate one shop's Admin API calls.
type Credentials struct {
	ShopDomain  string
	AccessToken string
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.ShopDomain) == "" {
		return errDomainRequired
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return errors.New("access token is required")
	}
	return nil
}

// Client talks to the Shopify Admin REST API on behalf of a shop. The client
// itself is tenant-agnostic; credentials arrive per call.
type Client struct {
	httpClient *http.Client
	apiVersion string
	// baseURLOverride replaces the per-shop https://{domain} base, for tests.
	baseURLOverride string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIVersion overrides the Admin API version segment.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(version)
		if trimmed != "" {
			c.apiVersion = trimmed
		}
	}
}

// WithBaseURL routes every request to a fixed base URL instead of the shop
// domain. Used by tests against httptest servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURLOverride = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the Admin REST client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiVersion: defaultAPIVersion,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, creds Credentials, productID string) (*Product, error) {
	if err := creds.validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop credentials")
	}
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var envelope productEnvelope
	path := fmt.Sprintf("products/%s.json", url.PathEscape(productID))
	if err := c.do(ctx, creds, http.MethodGet, path, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Product, nil
}

// ListProductsQuery filters the product listing.
type ListProductsQuery struct {
	Limit   int
	SinceID int64
	Status  string
}

// ListProducts returns a page of the shop's products.
func (c *Client) ListProducts(ctx context.Context, creds Credentials, query ListProductsQuery) ([]Product, error) {
	if err := creds.validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop credentials")
	}

	params := url.Values{}
	limit := query.Limit
	if limit <= 0 || limit > 250 {
		limit = defaultListPageLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	if query.SinceID > 0 {
		params.Set("since_id", strconv.FormatInt(query.SinceID, 10))
	}
	if query.Status != "" {
		params.Set("status", query.Status)
	}

	var envelope productsEnvelope
	if err := c.do(ctx, creds, http.MethodGet, "products.json", params, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Products, nil
}

// UpdateProductDescription writes the generated HTML back to the product.
func (c *Client) UpdateProductDescription(ctx context.Context, creds Credentials, productID string, html string) (*Product, error) {
	if err := creds.validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop credentials")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(productID), 10, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}

	body := updateProductRequest{Product: updateProductBody{ID: id, BodyHTML: html}}
	var envelope productEnvelope
	path := fmt.Sprintf("products/%d.json", id)
	if err := c.do(ctx, creds, http.MethodPut, path, nil, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Product, nil
}

// GetShop fetches the storefront account record, used for connection tests.
func (c *Client) GetShop(ctx context.Context, creds Credentials) (*Shop, error) {
	if err := creds.validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop credentials")
	}
	var envelope shopEnvelope
	if err := c.do(ctx, creds, http.MethodGet, "shop.json", nil, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Shop, nil
}

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, params url.Values, payload any, dest any) error {
	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL(creds.ShopDomain), c.apiVersion, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding shopify request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building shopify request")
	}
	req.Header.Set(tokenHeader, creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreConnector, err, "shopify request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapStatusError(resp)
	}

	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreConnector, err, "decoding shopify response")
	}
	return nil
}

func (c *Client) baseURL(shopDomain string) string {
	if c.baseURLOverride != "" {
		return c.baseURLOverride
	}
	return "https://" + strings.TrimSpace(shopDomain)
}

func (c *Client) mapStatusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	cause := fmt.Errorf("shopify api status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "product not found on storefront")
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, "storefront rejected the access token")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeStoreConnector, cause, "storefront request failed").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
}

// IsValidShopDomain applies the same sanity check the original install flow
// used before attempting any Admin API call.
func IsValidShopDomain(domain string) bool {
	domain = strings.TrimSpace(domain)
	return strings.HasSuffix(domain, ".myshopify.com") && len(domain) > len(".myshopify.com")
}
