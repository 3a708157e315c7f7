package config

import "time"

// IPInfoConfig represents the configuration for the geolocation service
type IPInfoConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// CacheConfig represents the configuration for the geolocation cache
type CacheConfig struct {
	Type       string
	TTL        time.Duration
	SQLitePath string
	MySQLDSN   string
}

// ReportConfig represents the configuration for the HTML report output
type ReportConfig struct {
	OutputDir string
	Title     string
}

// SummaryConfig represents the configuration for the analyst narrative
type SummaryConfig struct {
	Provider      string
	MaxDigestSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetIPInfo returns the geolocation service configuration
func (c *Config) GetIPInfo() IPInfoConfig {
	timeout, err := c.GetDuration("ipinfo.timeout")
	if err != nil {
		timeout = 5 * time.Second
	}
	return IPInfoConfig{
		BaseURL: c.GetString("ipinfo.base_url"),
		Token:   c.GetString("ipinfo.token"),
		Timeout: timeout,
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		ttl = 720 * time.Hour
	}
	return CacheConfig{
		Type:       c.GetString("cache.type"),
		TTL:        ttl,
		SQLitePath: c.GetString("cache.sqlite_path"),
		MySQLDSN:   c.GetString("cache.mysql_dsn"),
	}
}

// GetReport returns the report output configuration
func (c *Config) GetReport() ReportConfig {
	return ReportConfig{
		OutputDir: c.GetString("report.output_dir"),
		Title:     c.GetString("report.title"),
	}
}

// GetSummary returns the narrative configuration
func (c *Config) GetSummary() SummaryConfig {
	return SummaryConfig{
		Provider:      c.GetString("summary.provider"),
		MaxDigestSize: c.GetInt("summary.max_digest_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}
