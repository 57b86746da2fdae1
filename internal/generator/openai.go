package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider is the primary content provider.
type OpenAIProvider struct {
	client    openai.Client
	apiKey    string
	model     string
	temp      float64
	maxTokens int
	timeout   time.Duration
}

func NewOpenAIProvider(apiKey, model string, temp float64, maxTokens int, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		apiKey:    apiKey,
		model:     model,
		temp:      temp,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if len(systemPrompt) > 0 {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	chatOpts := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               p.model,
		Temperature:         openai.Float(p.temp),
		MaxCompletionTokens: openai.Int(int64(p.maxTokens)),
	}

	res, err := p.client.Chat.Completions.New(ctx, chatOpts)
	if err != nil {
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
