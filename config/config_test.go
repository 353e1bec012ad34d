package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", config.RPC.ListenAddr)
	assert.Equal(t, ByteSize(4<<20), config.RPC.MaxMsgSize)
	assert.True(t, config.RPC.MetricsEnabled)
	// viper lower cases map keys
	assert.Equal(t, 5000, config.RPC.RateLimits["reportownbatch"])
	assert.Equal(t, 5, config.RPC.BurstLimits["workerinfo"])
	assert.Equal(t, 1000, config.Handoff.Capacity)
	assert.Equal(t, uint(32), config.Proposer.MaxHeaderDigests)
	assert.Equal(t, 200*time.Millisecond, config.Proposer.MaxHeaderDelay)
	assert.Equal(t, "badger", config.Storage.Engine)
	assert.Equal(t, uint(10000), config.Storage.CacheSize)
	assert.Equal(t, uint(8080), config.Metrics.Port)
}

func TestLoad_Flags(t *testing.T) {
	defaults, err := DefaultConfig()
	require.NoError(t, err)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitializeFlags(flags, defaults)
	require.NoError(t, flags.Parse([]string{
		"--rpc-addr=0.0.0.0:9100",
		"--rpc-max-msg-size=16MiB",
		"--handoff-capacity=1",
		"--proposer-max-header-delay=1s",
		"--storage-engine=pebble",
		"--log-level=debug",
	}))

	config, err := Load(flags, "")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9100", config.RPC.ListenAddr)
	assert.Equal(t, ByteSize(16<<20), config.RPC.MaxMsgSize)
	assert.Equal(t, 1, config.Handoff.Capacity)
	assert.Equal(t, time.Second, config.Proposer.MaxHeaderDelay)
	assert.Equal(t, "pebble", config.Storage.Engine)
	assert.Equal(t, "debug", config.LogLevel)

	// flags that were not set keep the defaults
	assert.Equal(t, defaults.Storage.Dir, config.Storage.Dir)
	assert.Equal(t, defaults.Proposer.MaxHeaderDigests, config.Proposer.MaxHeaderDigests)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "primary.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
storage:
  engine: pebble
  dir: /var/lib/primary
rpc:
  max-msg-size: 1024
`), 0o600))

	config, err := Load(nil, file)
	require.NoError(t, err)
	assert.Equal(t, "pebble", config.Storage.Engine)
	assert.Equal(t, "/var/lib/primary", config.Storage.Dir)
	assert.Equal(t, ByteSize(1024), config.RPC.MaxMsgSize)
	// keys missing in the file keep their defaults
	assert.Equal(t, 1000, config.Handoff.Capacity)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PRIMARY_HANDOFF_CAPACITY", "7")
	t.Setenv("PRIMARY_STORAGE_DIR", "/tmp/primary")

	config, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 7, config.Handoff.Capacity)
	assert.Equal(t, "/tmp/primary", config.Storage.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	for name, args := range map[string][]string{
		"unknown engine":  {"--storage-engine=leveldb"},
		"zero capacity":   {"--handoff-capacity=0"},
		"zero delay":      {"--proposer-max-header-delay=0s"},
		"bad log level":   {"--log-level=loud"},
		"bad address":     {"--rpc-addr=nowhere"},
		"zero batch size": {"--proposer-max-header-digests=0"},
	} {
		t.Run(name, func(t *testing.T) {
			defaults, err := DefaultConfig()
			require.NoError(t, err)
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			InitializeFlags(flags, defaults)
			require.NoError(t, flags.Parse(args))

			_, err = Load(flags, "")
			require.Error(t, err)
			assert.True(t, IsInvalidConfigError(err))
		})
	}

	t.Run("bad byte size", func(t *testing.T) {
		defaults, err := DefaultConfig()
		require.NoError(t, err)
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		InitializeFlags(flags, defaults)
		require.NoError(t, flags.Parse([]string{"--rpc-max-msg-size=lots"}))

		_, err = Load(flags, "")
		require.Error(t, err)
		assert.False(t, IsInvalidConfigError(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})
}
