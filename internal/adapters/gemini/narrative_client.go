package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/phish-report/internal/utils"
)

// GeminiClient produces the analyst narrative using Google Gemini.
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxDigestSize int
	logger        *zap.Logger
	text          *utils.TextProcessor
	promptFormat  string
}

// NewGeminiClient creates a new Gemini narrative client.
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxDigestSize int,
	logger *zap.Logger,
	text *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxDigestSize: maxDigestSize,
		logger:        logger,
		text:          text,
		promptFormat: `You are writing the executive summary of a phishing simulation report
for a security team. Using only the figures below, write one short plain-prose
paragraph: how many targets there were, how far recipients progressed
(opened, clicked, submitted credentials), and one closing sentence on what the
numbers suggest. No headings, no bullet points, no numbers you were not given.

%s`,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SummarizeCampaign asks the model for a narrative paragraph.
func (c *GeminiClient) SummarizeCampaign(ctx context.Context, digest string) (string, error) {
	prompt := fmt.Sprintf(c.promptFormat, c.text.TruncateText(digest, c.maxDigestSize))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	c.logger.Debug("Narrative generated", zap.String("model", c.modelName))

	return strings.TrimSpace(responseText), nil
}
