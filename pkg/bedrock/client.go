// Package bedrock implements the invoke call against the Bedrock runtime
// REST API for Anthropic Messages protocol models.
package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/abdhe/bedrock-chat-gateway/pkg/content"
)

// AnthropicVersion is the protocol version tag Bedrock requires in every
// Messages API payload.
const AnthropicVersion = "bedrock-2023-05-31"

// Guardrail activation is a call-level parameter, carried as headers on the
// invoke request rather than fields in the payload body.
const (
	headerGuardrailID      = "X-Amzn-Bedrock-GuardrailIdentifier"
	headerGuardrailVersion = "X-Amzn-Bedrock-GuardrailVersion"
)

// Guardrail identifies a content-safety policy applied by Bedrock during
// inference.
type Guardrail struct {
	ID      string
	Version string
}

// Request is a single invoke call. Messages is single-turn for this gateway
// but the wire format carries the full sequence.
type Request struct {
	ModelID   string
	Messages  []content.Message
	MaxTokens int
	Guardrail *Guardrail // nil disables guardrail enforcement
}

// Invoker performs a model invocation and returns the raw response bytes.
// The response shape is provider-defined and left to the normalizer.
type Invoker interface {
	Invoke(ctx context.Context, req Request) ([]byte, error)
}

// InvocationError wraps a failed invoke call, carrying the underlying detail
// verbatim for diagnostics. Never retried by the gateway.
type InvocationError struct {
	Detail string
}

func (e *InvocationError) Error() string {
	return "bedrock: invocation failed: " + e.Detail
}

// Client invokes models over the Bedrock runtime HTTP endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Bedrock runtime client. endpoint is the base URL
// (e.g. https://bedrock-runtime.ap-northeast-1.amazonaws.com); apiKey, when
// non-empty, is sent as a bearer token.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		client:  &http.Client{},
		baseURL: endpoint,
		apiKey:  apiKey,
	}
}

type invokePayload struct {
	AnthropicVersion string            `json:"anthropic_version"`
	MaxTokens        int               `json:"max_tokens"`
	Messages         []content.Message `json:"messages"`
}

// Invoke posts the Messages payload to /model/{modelId}/invoke and returns
// the raw response body. Transport failures and non-2xx statuses both become
// an InvocationError with the provider's detail preserved.
func (c *Client) Invoke(ctx context.Context, req Request) ([]byte, error) {
	payload := invokePayload{
		AnthropicVersion: AnthropicVersion,
		MaxTokens:        req.MaxTokens,
		Messages:         req.Messages,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("bedrock: marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/model/%s/invoke", c.baseURL, url.PathEscape(req.ModelID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("bedrock: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if req.Guardrail != nil {
		httpReq.Header.Set(headerGuardrailID, req.Guardrail.ID)
		httpReq.Header.Set(headerGuardrailVersion, req.Guardrail.Version)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &InvocationError{Detail: err.Error()}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &InvocationError{Detail: fmt.Sprintf("read response: %v", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &InvocationError{
			Detail: fmt.Sprintf("status %d: %s", httpResp.StatusCode, string(respBody)),
		}
	}

	return respBody, nil
}
