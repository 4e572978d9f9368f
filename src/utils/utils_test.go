package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerminalID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "ABC001", "abc001"},
		{"collapses internal spaces", "ABC 001", "abc001"},
		{"collapses tabs and repeats", "ABC\t 0 0 1", "abc001"},
		{"trims surrounding whitespace", "  pos01  ", "pos01"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeTerminalID(tc.input))
		})
	}
}

func TestRoundFloat(t *testing.T) {
	assert.InDelta(t, 1203.70, RoundFloat(1234.56*(1-0.025), 2), 0.000001)
	assert.InDelta(t, 43.97, RoundFloat(45.10*(1-0.025), 2), 0.000001)
	assert.InDelta(t, -2.34, RoundFloat(-2.344, 2), 0.000001)
	assert.InDelta(t, 100, RoundFloat(99.999, 0), 0.000001)
}
