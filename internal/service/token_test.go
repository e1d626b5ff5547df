package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShortToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := newShortToken()
		require.NoError(t, err)
		require.Len(t, token, shortTokenLength)

		for _, r := range token {
			assert.True(t, strings.ContainsRune(tokenAlphabet, r), "unexpected character %q", r)
		}
		seen[token] = struct{}{}
	}

	// 57^8 possible tokens, 100 draws must not collide
	assert.Len(t, seen, 100)
}
