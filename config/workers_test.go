package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/model/flow"
)

const workersYAML = `
workers:
  1:
    name: "aabbccdd"
    transactions: /ip4/127.0.0.1/tcp/7003
    worker_address: /ip4/127.0.0.1/tcp/7004
  0:
    name: "00112233"
    transactions: /ip4/127.0.0.1/tcp/7001
    worker_address: /ip4/127.0.0.1/tcp/7002
`

func TestLoadWorkers(t *testing.T) {
	file := filepath.Join(t.TempDir(), "workers.yml")
	require.NoError(t, os.WriteFile(file, []byte(workersYAML), 0o600))

	topology, err := LoadWorkers(file)
	require.NoError(t, err)
	assert.Equal(t, []flow.WorkerID{0, 1}, topology.IDs())

	info, ok := topology.ByID(1)
	require.True(t, ok)
	assert.Equal(t, flow.WorkerInfo{
		Name:          "aabbccdd",
		Transactions:  "/ip4/127.0.0.1/tcp/7003",
		WorkerAddress: "/ip4/127.0.0.1/tcp/7004",
	}, info)
}

func TestParseWorkers_Invalid(t *testing.T) {
	for name, data := range map[string]string{
		"empty":       "workers: {}",
		"not yaml":    "workers: [",
		"bad name":    "workers:\n  0:\n    name: zz\n    transactions: /ip4/127.0.0.1/tcp/1\n    worker_address: /ip4/127.0.0.1/tcp/2\n",
		"bad address": "workers:\n  0:\n    name: aa\n    transactions: localhost:1\n    worker_address: /ip4/127.0.0.1/tcp/2\n",
		"bad id":      "workers:\n  x:\n    name: aa\n    transactions: /ip4/127.0.0.1/tcp/1\n    worker_address: /ip4/127.0.0.1/tcp/2\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWorkers([]byte(data))
			assert.Error(t, err)
		})
	}

	_, err := LoadWorkers(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
