package unlockcode_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/sportspot-api/internal/pkg/unlockcode"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := unlockcode.New()
		require.NoError(t, err)

		assert.Len(t, code, 8)
		for _, r := range code {
			assert.NotContains(t, "0OI1L", string(r), "ambiguous character in code %q", code)
		}
		assert.False(t, strings.ContainsAny(code, "abcdefghijklmnopqrstuvwxyz"))
		seen[code] = true
	}

	// 100 draws from a 31^8 space colliding would point at a broken source.
	assert.Greater(t, len(seen), 90)
}

func TestNewLegacy(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := unlockcode.NewLegacy()
		require.NoError(t, err)

		require.Len(t, code, 4)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, unlockcode.Matches("ABCD2345", "ABCD2345"))
	assert.False(t, unlockcode.Matches("ABCD2345", "ABCD2346"))
	assert.False(t, unlockcode.Matches("ABCD2345", "ABCD234"))
	assert.False(t, unlockcode.Matches("ABCD2345", ""))
}
