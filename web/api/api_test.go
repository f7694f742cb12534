package api

import (
	"testing"

	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want model.Platform
		err  error
	}{
		{"leetcode", model.LeetCode, nil},
		{"CF", model.Codeforces, nil},
		{"getLeetCodeDetails", model.LeetCode, nil},
		{"getCodeChefDetails", model.CodeChef, nil},
		{"getGfgDetails", model.GFG, nil},
		{"getHackerRankDetails", model.HackerRank, nil},
		{"getTopCoderDetails", "", platform.ErrUnknownPlatform},
		{"", "", platform.ErrUnknownPlatform},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePlatform(tt.in)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigKeyAllowed(t *testing.T) {
	assert.True(t, configKeyAllowed("INTENSITY_LEETCODE"))
	assert.True(t, configKeyAllowed("STREAK_GRACE_GFG"))
	assert.True(t, configKeyAllowed("HTTP_TIMEOUT"))
	assert.False(t, configKeyAllowed("LISTEN_ADDR"))
	assert.False(t, configKeyAllowed("USER_AGENT"))
}
