package service

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a TextGenerator when no provider is
// configured. Callers treat it like any transient failure and degrade.
var ErrNotConfigured = errors.New("text generation provider not configured")

// TextGenerator is the boundary to a hosted text-generation service.
// An empty reply with a nil error never occurs; failures come back as
// errors and callers fall through to their deterministic paths.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
