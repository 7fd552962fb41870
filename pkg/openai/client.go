package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopquill/shopquill-backend/pkg/config"
	"github.com/shopquill/shopquill-backend/pkg/enums"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4"

	// samplingTemperature is fixed for all description generations; creative
	// variance is controlled by tone templates, not by sampling.
	samplingTemperature = 0.7
	presencePenalty     = 0.1
	frequencyPenalty    = 0.1

	errorBodyReadLimit int64 = 4096
)

// maxTokensByLength fixes the output ceiling per length tier. The tier is
// normalized with the same helper the prompt builder uses, so the word-count
// guidance and the token budget always agree.
var maxTokensByLength = map[enums.ContentLength]int{
	enums.ContentLengthShort:  200,
	enums.ContentLengthMedium: 350,
	enums.ContentLengthLong:   500,
}

// MaxTokensFor returns the output token ceiling for a length tier.
func MaxTokensFor(length enums.ContentLength) int {
	return maxTokensByLength[enums.NormalizeContentLength(length)]
}

// Client wraps the chat-completions API used to draft product copy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
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

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the completion client. A missing API key is allowed here;
// calls fail with PROVIDER_NOT_CONFIGURED before any network I/O so the rest
// of the app can boot without a credential.
func NewClient(cfg config.OpenAIConfig, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      strings.TrimSpace(cfg.Model),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if client.model == "" {
		client.model = defaultModel
	}
	if cfg.BaseURL != "" {
		client.baseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	}
	if client.httpClient.Timeout == 0 {
		client.httpClient.Timeout = 60 * time.Second
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Configured reports whether a provider credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// CompletionRequest carries one generation exchange.
type CompletionRequest struct {
	System string
	User   string
	Length enums.ContentLength
}

// CompletionResult is the trimmed text plus the provider-reported total token
// count for the exchange (prompt + completion).
type CompletionResult struct {
	Text       string
	TokensUsed int
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete runs one chat completion under the tier's token ceiling.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	if !c.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeProviderNotConfigured, "openai api key is not configured")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:        MaxTokensFor(req.Length),
		Temperature:      samplingTemperature,
		PresencePenalty:  presencePenalty,
		FrequencyPenalty: frequencyPenalty,
	}

	resp, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.classifyError(resp)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProviderUnavailable, err, "decoding completion response")
	}
	if len(decoded.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeProviderUnavailable, "completion response contained no choices")
	}

	return &CompletionResult{
		Text:       strings.TrimSpace(decoded.Choices[0].Message.Content),
		TokensUsed: decoded.Usage.TotalTokens,
	}, nil
}

// TestConnection issues a tiny completion to prove the credential works.
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.Configured() {
		return pkgerrors.New(pkgerrors.CodeProviderNotConfigured, "openai api key is not configured")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: `Reply with "ok".`},
		},
		MaxTokens:   10,
		Temperature: 0,
	}

	resp, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.classifyError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProviderUnavailable, err, "completion request failed")
	}
	return resp, nil
}

func (c *Client) classifyError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var decoded apiError
	_ = json.Unmarshal(snippet, &decoded)
	code := decoded.Error.Code
	if code == "" {
		code = decoded.Error.Type
	}
	cause := fmt.Errorf("openai status %d (%s): %s", resp.StatusCode, code, decoded.Error.Message)

	switch {
	case code == "insufficient_quota" || decoded.Error.Type == "insufficient_quota":
		return pkgerrors.Wrap(pkgerrors.CodeProviderQuotaExceeded, cause, "provider quota exceeded")
	case resp.StatusCode == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeProviderRateLimited, cause, "provider rate limited")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeProviderUnavailable, cause, "provider request failed")
	}
}
