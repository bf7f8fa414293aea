package tickets

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOnlineCode_Format(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^TK-2026-\d{4}$`)

	for i := 0; i < 20; i++ {
		code, err := newOnlineCode(now)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestNewManualCode_AttemptBumpsCode(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	first := newManualCode(now, 0)
	second := newManualCode(now, 1)

	assert.Equal(t, fmt.Sprintf("MT-%d", now.UnixMilli()), first)
	assert.NotEqual(t, first, second)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "TK-2026-0001", NormalizeCode("  tk-2026-0001 "))
	assert.Equal(t, "MT-1756500000000", NormalizeCode("mt-1756500000000"))
}
