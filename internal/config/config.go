package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	LLM struct {
		Provider  string
		Model     string
		APIKey    string
		BaseURL   string
		MaxTokens int
	}
	Instructions struct {
		Path string
	}
	Log struct {
		Level  string
		Format string
		File   string
	}
	Tracing struct {
		Enabled  bool
		Endpoint string
	}
}

// Load reads config from environment (HXWEATHER_ prefix) and optional hxweather.yaml.
//
// The LLM credential is not required here: a missing key only surfaces as a
// generation failure on the first request.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HXWEATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("hxweather")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	// Provider SDK conventions; explicit names bypass the HXWEATHER_ prefix.
	_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("instructions.path", "system_prompt.txt")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("tracing.endpoint", "localhost:4318")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	cfg.Instructions.Path = v.GetString("instructions.path")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Log.File = v.GetString("log.file")
	cfg.Tracing.Enabled = v.GetBool("tracing.enabled")
	cfg.Tracing.Endpoint = v.GetString("tracing.endpoint")

	// Fall back to the provider's conventional variable when HXWEATHER_LLM_API_KEY is unset.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v.GetString(providerKeyEnv(cfg.LLM.Provider))
	}

	if cfg.LLM.MaxTokens <= 0 {
		return nil, fmt.Errorf("HXWEATHER_LLM_MAX_TOKENS must be positive, got %d", cfg.LLM.MaxTokens)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return nil, fmt.Errorf("HXWEATHER_LOG_FORMAT must be console or json, got %q", cfg.Log.Format)
	}

	return cfg, nil
}

// providerKeyEnv maps a provider to the viper key bound to its conventional
// API key variable.
func providerKeyEnv(provider string) string {
	switch provider {
	case "openai", "openai-compatible":
		return "openai_api_key"
	case "gemini":
		return "gemini_api_key"
	default:
		return "anthropic_api_key"
	}
}
