package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	ipCfg := cfg.GetIPInfo()
	assert.Equal(t, "https://ipinfo.io", ipCfg.BaseURL)
	assert.Empty(t, ipCfg.Token)
	assert.Equal(t, 5*time.Second, ipCfg.Timeout)

	cacheCfg := cfg.GetCache()
	assert.Equal(t, "memory", cacheCfg.Type)
	assert.Equal(t, 720*time.Hour, cacheCfg.TTL)

	reportCfg := cfg.GetReport()
	assert.Equal(t, ".", reportCfg.OutputDir)
	assert.Equal(t, "Phishing Campaign Report", reportCfg.Title)

	summaryCfg := cfg.GetSummary()
	assert.Equal(t, "none", summaryCfg.Provider)
	assert.Equal(t, 4096, summaryCfg.MaxDigestSize)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("ipinfo.token", "abc123")
	v.Set("cache.type", "sqlite")
	v.Set("summary.provider", "openai")
	cfg := NewFromViper(v)

	assert.Equal(t, "abc123", cfg.GetIPInfo().Token)
	assert.Equal(t, "sqlite", cfg.GetCache().Type)
	assert.Equal(t, "openai", cfg.GetSummary().Provider)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile("/nonexistent/config.yaml")
	require.Error(t, err)
}
