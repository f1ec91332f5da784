package procure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLogLine(t *testing.T) {
	assert.Equal(t,
		"[WRN] AUTH role check failed user_id=42 role=staff",
		formatLogLine("WRN", "role check failed", []any{"user_id", 42, "role", "staff"}))

	assert.Equal(t,
		"[INF] AUTH listening",
		formatLogLine("INF", "listening", nil))

	// unpaired trailing value stays visible instead of corrupting the line
	assert.Equal(t,
		"[ERR] AUTH boom dangling",
		formatLogLine("ERR", "boom", []any{"dangling"}))
}
