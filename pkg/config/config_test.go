package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInferenceProfileARN(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		want    bool
	}{
		{
			"full inference profile ARN",
			"arn:aws:bedrock:ap-northeast-1:123456789012:inference-profile/apac.anthropic.claude-sonnet-4-20250514-v1:0",
			true,
		},
		{"bare model id", "anthropic.claude-sonnet-4-20250514-v1:0", false},
		{"regional profile id without ARN", DefaultModelID, false},
		{"ARN of a foundation model", "arn:aws:bedrock:us-east-1::foundation-model/anthropic.claude-v2", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInferenceProfileARN(tt.modelID))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{ModelID: "arn:aws:bedrock:ap-northeast-1:123456789012:inference-profile/p"}
	assert.NoError(t, cfg.Validate())

	cfg.ModelID = "claude-3"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "inference-profile ARN")
}

func TestGuardrailEnabled(t *testing.T) {
	assert.False(t, Config{}.GuardrailEnabled())
	assert.True(t, Config{GuardrailID: "gr-1"}.GuardrailEnabled())
}
