package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentNumberFormat(t *testing.T) {
	n, err := NewDocumentNumber("RES")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^RES-\d{14}-[0-9a-f]{4}$`), n)
}

func TestNewDocumentNumberUniqueWithinSecond(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := NewDocumentNumber("ORD")
		require.NoError(t, err)
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
}
