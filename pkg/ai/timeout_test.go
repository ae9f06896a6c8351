package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type slowCompletion struct{}

func (slowCompletion) Name() string { return "slow" }

func (slowCompletion) Complete(ctx context.Context, _ string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
		return "late", nil
	}
}

func TestWithTimeout(t *testing.T) {
	c := WithTimeout(slowCompletion{}, 10*time.Millisecond)
	assert.Equal(t, "slow", c.Name())

	_, err := c.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Nil(t, WithTimeout(nil, time.Second))
	_, unwrapped := WithTimeout(slowCompletion{}, 0).(slowCompletion)
	assert.True(t, unwrapped)
}
