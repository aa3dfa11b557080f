// Package config holds the gateway configuration resolved once at cold start.
package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultModelID is used when BEDROCK_MODEL_ID is not set. Note that the
// default is a bare inference-profile id, not an ARN, so a deployment must
// set the full ARN before the gateway will accept requests.
const DefaultModelID = "apac.anthropic.claude-sonnet-4-20250514-v1:0"

// DefaultGuardrailVersion is applied when a guardrail id is configured
// without an explicit version.
const DefaultGuardrailVersion = "DRAFT"

// Config is the immutable gateway configuration. It is constructed once in
// main and injected into the handler; nothing mutates it afterwards.
type Config struct {
	// ModelID is the Bedrock model identifier. Must be a fully-qualified
	// inference-profile ARN, enforced per request via Validate.
	ModelID string

	// GuardrailID enables Bedrock guardrail enforcement when non-empty.
	GuardrailID string

	// GuardrailVersion selects the guardrail version (e.g. "DRAFT", "1").
	GuardrailVersion string

	// Endpoint is the Bedrock runtime base URL.
	Endpoint string

	// APIKey, when set, is sent as a bearer token on invoke calls.
	APIKey string

	// MaxTokens is the generation ceiling passed to the model.
	MaxTokens int

	// RequestTimeout bounds a single invoke call end to end.
	RequestTimeout time.Duration
}

// IsInferenceProfileARN reports whether modelID is a fully-qualified
// inference-profile ARN rather than a bare model id. Bedrock rejects
// cross-region invocations routed by bare ids, so the gateway refuses to
// start serving until the ARN form is configured.
func IsInferenceProfileARN(modelID string) bool {
	return strings.HasPrefix(modelID, "arn:aws") && strings.Contains(modelID, "inference-profile")
}

// Validate checks the parts of the configuration that make every request
// fail identically when wrong. It is called per request so a bad deployment
// answers with a stable configuration error instead of opaque provider
// failures.
func (c Config) Validate() error {
	if !IsInferenceProfileARN(c.ModelID) {
		return fmt.Errorf("config: BEDROCK_MODEL_ID must be an inference-profile ARN, got %q", c.ModelID)
	}
	return nil
}

// GuardrailEnabled reports whether invoke calls should carry guardrail
// parameters.
func (c Config) GuardrailEnabled() bool {
	return c.GuardrailID != ""
}
