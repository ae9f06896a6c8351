package responses

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	assert.True(t, isRateLimitError(errors.New("POST: 429 Too Many Requests")))
	assert.True(t, isServerError(errors.New("503 Service Unavailable")))
	assert.False(t, isRateLimitError(errors.New("401 unauthorized")))
	assert.False(t, isServerError(nil))
}
