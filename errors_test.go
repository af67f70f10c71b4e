package undrstnd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()
	all := []error{
		ErrEmptyPrompt, ErrUnsupportedRole, ErrUnsupportedContentType,
		ErrMalformedArgs, ErrMalformedResult, ErrInvalidResponse, ErrEmptyResponse,
		ErrUnsupportedMode, ErrUnsupportedToolChoice,
	}
	seen := make(map[string]bool, len(all))
	for _, err := range all {
		assert.True(t, strings.HasPrefix(err.Error(), "undrstnd: "), err.Error())
		assert.False(t, seen[err.Error()], "duplicate message %q", err.Error())
		seen[err.Error()] = true
	}
}

func TestSentinelErrors_SurviveWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("messages[2]: %w", fmt.Errorf("%w: %q", ErrUnsupportedRole, "developer"))
	require.ErrorIs(t, err, ErrUnsupportedRole)
	assert.False(t, errors.Is(err, ErrEmptyPrompt))
	assert.Equal(t, `messages[2]: undrstnd: unsupported message role: "developer"`, err.Error())
}
