package llm

import (
	"context"
	"errors"
	"io"
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNoProvider means neither a request key nor a keyless provider is available.
var ErrNoProvider = errors.New("no llm provider available")

// Close releases clients that hold connections; others are ignored.
func Close(c LLMClient) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
