package ai

import (
	"context"
	"time"
)

type timeoutCompletion struct {
	Completion
	timeout time.Duration
}

// WithTimeout bounds every Complete call of c. A non-positive timeout or a
// nil c returns c unchanged.
func WithTimeout(c Completion, timeout time.Duration) Completion {
	if c == nil || timeout <= 0 {
		return c
	}
	return &timeoutCompletion{Completion: c, timeout: timeout}
}

func (t *timeoutCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Completion.Complete(ctx, prompt)
}
