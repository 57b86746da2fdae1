package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrGeneration indicates that every configured provider failed to produce a
// usable file set.
var ErrGeneration = errors.New("content generation failed")

// ErrNotConfigured is returned by a provider whose API key is missing. The
// generator treats it like any other provider failure and moves on to the
// next provider in the chain.
var ErrNotConfigured = errors.New("provider not configured")

// FileSet maps relative file paths to generated text content.
type FileSet map[string]string

// ContentProvider is one LLM backend capable of producing a site from a
// prompt pair.
type ContentProvider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Request struct {
	Brief           string
	Checks          []string
	AttachmentNames []string

	// Revision marks a round 2 request, which switches to the revision
	// prompt template.
	Revision bool
}

// Generator produces a static site by asking an ordered chain of providers.
// The first provider that returns a parseable response wins.
type Generator struct {
	providers []ContentProvider
}

func New(providers ...ContentProvider) *Generator {
	return &Generator{providers: providers}
}

func (g *Generator) Generate(ctx context.Context, req Request) (FileSet, error) {
	system := systemPrompt(req.Revision)
	user, err := buildUserPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("error building generation prompt: %w", err)
	}

	var lastErr error
	for _, provider := range g.providers {
		response, err := provider.Generate(ctx, system, user)
		if err != nil {
			slog.Warn("content provider failed", "provider", provider.Name(), "error", err)
			lastErr = err
			continue
		}

		files := ParseResponse(response)
		if len(files) == 0 {
			slog.Warn("content provider returned no parseable files", "provider", provider.Name())
			lastErr = fmt.Errorf("provider %s returned no parseable files", provider.Name())
			continue
		}

		slog.Info("generated site files", "provider", provider.Name(), "files", len(files))
		EnsureBaseline(files)
		return files, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrGeneration, lastErr)
}
