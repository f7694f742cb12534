package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), ".env"))
	conf, err := Parse(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5200", conf.ListenAddr)
	assert.Equal(t, 10*time.Second, conf.HTTPTimeout)
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, activity.LowThresholds, conf.Tuning.Thresholds[model.LeetCode])
	assert.Equal(t, activity.HighThresholds, conf.Tuning.Thresholds[model.Codeforces])
	assert.Equal(t, 1, conf.Tuning.GraceDays[model.GFG])
	assert.Equal(t, "https://geeks-for-geeks-api.vercel.app", conf.Endpoints().GFGAPI)
}

func TestReadFromFile(t *testing.T) {
	path := writeEnv(t, `PORT=9000
HTTP_TIMEOUT=3
INTENSITY_CODECHEF=2,4,8
INTENSITY_GFG=5,1,1
STREAK_GRACE_LEETCODE=0
STREAK_GRACE_HACKERRANK=soon
GFG_API_BASE=https://gfg.internal/
OUTBOUND_RPS=2.5
`)
	v := New(path)
	Read(v)
	conf, err := Parse(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", conf.ListenAddr)
	assert.Equal(t, 3*time.Second, conf.HTTPTimeout)
	assert.Equal(t, activity.Thresholds{2, 4, 8}, conf.Tuning.Thresholds[model.CodeChef])
	assert.Equal(t, activity.HighThresholds, conf.Tuning.Thresholds[model.GFG])
	assert.Equal(t, 0, conf.Tuning.GraceDays[model.LeetCode])
	assert.Equal(t, activity.DefaultGraceDays, conf.Tuning.GraceDays[model.HackerRank])
	assert.Equal(t, "https://gfg.internal", conf.Endpoints().GFGAPI)
	assert.InDelta(t, 2.5, conf.ClientConfig().RPS, 0.001)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeEnv(t, "LISTEN_ADDR=0.0.0.0:7000\nLOG_LEVEL=debug\n")
	t.Setenv("LOG_LEVEL", "warn")

	v := New(path)
	Read(v)
	conf, err := Parse(v)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", conf.ListenAddr)
	assert.Equal(t, "warn", conf.LogLevel)
}

func TestReadWritesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	Read(New(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(string(data)), "LOG_LEVEL=INFO")

	// 第二次读取应命中刚写出的文件
	v := New(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, path, v.ConfigFileUsed())
}

func TestReadKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=6000\n"), 0o644))
	Read(New(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PORT=6000\n", string(data))
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"", 10 * time.Second, false},
		{"15", 15 * time.Second, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"750ms", 750 * time.Millisecond, false},
		{"0", 0, true},
		{"-2s", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseTimeout(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
