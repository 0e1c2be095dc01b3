package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
	assert.Equal(t, time.Duration(0), cfg.ShuffleTimeoutDuration())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  address = "0.0.0.0"
  port    = 9000
}

table {
  creator         = "house"
  small_blind     = 5
  big_blind       = 10
  buy_in          = 500
  oracle_seed     = "prod-seed"
  shuffle_timeout = "45s"
}
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	assert.Equal(t, "info", cfg.Server.LogLevel, "defaults fill gaps")
	assert.Equal(t, "house", cfg.Table.Creator)
	assert.Equal(t, uint64(5), cfg.Table.SmallBlind)
	assert.Equal(t, uint64(10), cfg.Table.BigBlind)
	assert.Equal(t, uint64(500), cfg.Table.BuyIn)
	assert.Equal(t, 45*time.Second, cfg.ShuffleTimeoutDuration())
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {}

table {
  creator         = "house"
  shuffle_timeout = "soon"
}
`), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "shuffle_timeout")
}
