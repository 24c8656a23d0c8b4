package ports

import "context"

// TextGenerator produces a short completion for a prompt.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
