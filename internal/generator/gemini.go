package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiProvider is the fallback content provider. The underlying client is
// created lazily on first use so a missing key only affects the tasks that
// actually reach the fallback.
type GeminiProvider struct {
	apiKey    string
	model     string
	temp      float64
	maxTokens int
	timeout   time.Duration

	mu     sync.Mutex
	client *googleai.GoogleAI
}

func NewGeminiProvider(apiKey, model string, temp float64, maxTokens int, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		model:     model,
		temp:      temp,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) ensureClient(ctx context.Context) (*googleai.GoogleAI, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	client, err := googleai.New(ctx, googleai.WithAPIKey(p.apiKey), googleai.WithDefaultModel(p.model))
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := p.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := client.GenerateContent(ctx, messages, llms.WithTemperature(p.temp), llms.WithMaxTokens(p.maxTokens))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gemini returned no choices")
	}

	return resp.Choices[0].Content, nil
}
