package ai

import "context"

// Generator produces text from a single-turn prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
