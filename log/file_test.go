package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awaketai/news-aggregator/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	p, c := NewFilePlugin(path, zapcore.InfoLevel)
	logger := NewLogger(p)
	logger.Debug("dropped")
	logger.Info("crawl end", zap.Int("feeds_ok", 3))
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "crawl end", entry["msg"])
	assert.EqualValues(t, 3, entry["feeds_ok"])
	assert.Contains(t, entry, "caller")
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"
	cfg.LogFile = filepath.Join(t.TempDir(), "newsagg.log")

	logger, closer, err := FromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer zap.ReplaceGlobals(zap.NewNop())

	logger.Info("not written")
	zap.L().Warn("written through global")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "not written")
	assert.Contains(t, string(b), "written through global")
}

func TestFromConfigStderr(t *testing.T) {
	cfg := config.Default()
	logger, closer, err := FromConfig(cfg)
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())
	assert.Nil(t, closer)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestFromConfigBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	_, _, err := FromConfig(cfg)
	assert.Error(t, err)
}
