package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/utils"
)

// OpenAIClient produces the analyst narrative using OpenAI.
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxDigestSize int
	logger        *zap.Logger
	text          *utils.TextProcessor
	promptFormat  string
}

// NewOpenAIClient creates a new OpenAI narrative client.
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxDigestSize int,
	logger *zap.Logger,
	text *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxDigestSize: maxDigestSize,
		logger:        logger,
		text:          text,
		promptFormat: `You are writing the executive summary of a phishing simulation report
for a security team. Using only the figures below, write one short plain-prose
paragraph: how many targets there were, how far recipients progressed
(opened, clicked, submitted credentials), and one closing sentence on what the
numbers suggest. No headings, no bullet points, no numbers you were not given.

%s`,
	}
}

// SummarizeCampaign asks the model for a narrative paragraph.
func (c *OpenAIClient) SummarizeCampaign(ctx context.Context, digest string) (string, error) {
	prompt := fmt.Sprintf(c.promptFormat, c.text.TruncateText(digest, c.maxDigestSize))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize security assessment results in plain prose.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("Narrative generated",
		zap.String("model", c.modelName),
		zap.String("processing_id", resp.ID))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
