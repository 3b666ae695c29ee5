package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("HXWEATHER_LLM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 8192, cfg.LLM.MaxTokens)
	assert.Equal(t, "system_prompt.txt", cfg.Instructions.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Empty(t, cfg.LLM.APIKey, "a missing key is not a load error")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HXWEATHER_HTTP_ADDR", ":9090")
	t.Setenv("HXWEATHER_LLM_PROVIDER", " OpenAI ")
	t.Setenv("HXWEATHER_LLM_MODEL", "gpt-4o")
	t.Setenv("HXWEATHER_LLM_MAX_TOKENS", "2048")
	t.Setenv("HXWEATHER_LOG_FORMAT", "json")
	t.Setenv("HXWEATHER_TRACING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoad_ProviderKeyFallback(t *testing.T) {
	t.Setenv("HXWEATHER_LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-openai-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKey)

	t.Setenv("HXWEATHER_LLM_PROVIDER", "openai")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-openai-test", cfg.LLM.APIKey)

	t.Setenv("HXWEATHER_LLM_API_KEY", "explicit")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HXWEATHER_LOG_FORMAT", "xml")
	_, err := Load()
	assert.ErrorContains(t, err, "HXWEATHER_LOG_FORMAT")

	t.Setenv("HXWEATHER_LOG_FORMAT", "console")
	t.Setenv("HXWEATHER_LLM_MAX_TOKENS", "-1")
	_, err = Load()
	assert.ErrorContains(t, err, "HXWEATHER_LLM_MAX_TOKENS")
}
