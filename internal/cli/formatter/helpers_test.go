package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0m"},
		{-3, "0m"},
		{0.5, "30s"},
		{6.5, "7m"},
		{60, "1h"},
		{75.2, "1h 15m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.in), "FormatMinutes(%v)", tt.in)
	}
}

func TestHumanDate(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDate(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{{"xxxx", "y"}, {"z"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "xxxx  y"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderCoverage(t *testing.T) {
	assert.Contains(t, RenderCoverage(3, 4, 8), "3/4")
	assert.Contains(t, RenderCoverage(9, 4, 8), "4/4")
	assert.Contains(t, RenderCoverage(0, 0, 8), "0/0")
	assert.Contains(t, RenderCoverage(4, 4, 4), strings.Repeat(filledBlock, 4))
	assert.Contains(t, RenderCoverage(0, 4, 4), strings.Repeat(emptyBlock, 4))
}
