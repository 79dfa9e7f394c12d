package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Agent:  AgentConfig{APIKey: "test-key"},
		Layout: LayoutConfig{BaseURL: "http://localhost:5001"},
		Digest: DigestConfig{MaxAttempts: 3, MaxFileSize: 16 * 1024 * 1024},
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "missing api key", mutate: func(c *Config) { c.Agent.APIKey = "" }, want: "OPENAI_API_KEY"},
		{name: "missing layout url", mutate: func(c *Config) { c.Layout.BaseURL = "" }, want: "LAYOUT_BASE_URL"},
		{name: "zero attempts", mutate: func(c *Config) { c.Digest.MaxAttempts = 0 }, want: "MAX_ATTEMPTS"},
		{name: "zero file size", mutate: func(c *Config) { c.Digest.MaxFileSize = 0 }, want: "MAX_FILE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
