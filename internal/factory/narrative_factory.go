package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/adapters/bedrock"
	"github.com/mikey/phish-report/internal/adapters/gemini"
	"github.com/mikey/phish-report/internal/adapters/openai"
	"github.com/mikey/phish-report/internal/config"
	"github.com/mikey/phish-report/internal/core"
	"github.com/mikey/phish-report/internal/utils"
)

// NarrativeFactory creates narrative clients
type NarrativeFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	text   *utils.TextProcessor
}

// NewNarrativeFactory creates a new narrative factory
func NewNarrativeFactory(cfg *config.Config, logger *zap.Logger, text *utils.TextProcessor) *NarrativeFactory {
	return &NarrativeFactory{
		cfg:    cfg,
		logger: logger,
		text:   text,
	}
}

// CreateNarrativeClient creates a narrative client based on the
// configuration, or nil when the provider is "none". With a nil client
// the report carries no analyst narrative and the tool stays offline
// apart from geolocation.
func (f *NarrativeFactory) CreateNarrativeClient() (core.NarrativeClient, error) {
	provider := f.cfg.GetSummary().Provider

	switch provider {
	case "", "none":
		return nil, nil
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.text)
		return factory.CreateClient()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.text)
		return factory.CreateClient()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.text)
		return factory.CreateClient()
	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", provider)
	}
}
