package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/config"
	"github.com/onflow/flow-primary/engine/primary/rpc"
	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/module/irrecoverable"
	"github.com/onflow/flow-primary/utils/unittest"
)

func testConfig(t *testing.T, engine string) *config.Config {
	conf, err := config.DefaultConfig()
	require.NoError(t, err)
	conf.RPC.ListenAddr = "127.0.0.1:0"
	conf.RPC.MetricsEnabled = false
	conf.Metrics.Port = 0
	conf.Storage.Engine = engine
	conf.Storage.Dir = t.TempDir()
	conf.Proposer.MaxHeaderDelay = 10 * time.Millisecond
	return conf
}

// TestPrimaryNode runs a node on each storage engine and reports batches to it
// the way a worker does.
func TestPrimaryNode(t *testing.T) {
	for _, engine := range []string{EngineBadger, EnginePebble} {
		t.Run(engine, func(t *testing.T) {
			conf := testConfig(t, engine)
			workers := unittest.WorkerTopologyFixture(2)
			headers := make(chan *flow.Header, 10)

			registry := prometheus.NewRegistry()
			node, err := NewPrimaryNode(unittest.Logger(), conf, workers, registry, registry, func(h *flow.Header) {
				headers <- h
			})
			require.NoError(t, err)

			ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
			node.Start(ctx)
			unittest.RequireCloseBefore(t, node.Ready(), 2*time.Second, "node did not start")
			assert.True(t, node.Switch.Active())

			client, err := rpc.Dial(context.Background(), node.RPC.GRPCAddress().String(), uint(conf.RPC.MaxMsgSize))
			require.NoError(t, err)

			own := unittest.BatchDigestFixture()
			require.NoError(t, client.ReportOwnBatch(context.Background(), own, 1, time.Now()))

			header := <-headers
			assert.Contains(t, header.Payload, flow.BatchRef{Digest: own, WorkerID: 1})

			peer := unittest.BatchDigestFixture()
			require.NoError(t, client.ReportOthersBatch(context.Background(), peer, 0))
			require.NoError(t, client.ReportOthersBatch(context.Background(), peer, 0))

			for _, ref := range []flow.BatchRef{{Digest: own, WorkerID: 1}, {Digest: peer, WorkerID: 0}} {
				found, err := node.Payloads.Has(ref.Digest, ref.WorkerID)
				require.NoError(t, err)
				assert.True(t, found)
			}

			table, err := client.WorkerInfo(context.Background())
			require.NoError(t, err)
			assert.Equal(t, workers.Workers(), table)

			require.NoError(t, client.Close())
			cancel()
			unittest.RequireCloseBefore(t, node.Done(), 5*time.Second, "node did not stop")
			require.NoError(t, node.Close())
		})
	}
}

func TestNewPrimaryNode_UnknownEngine(t *testing.T) {
	conf := testConfig(t, "leveldb")
	registry := prometheus.NewRegistry()
	_, err := NewPrimaryNode(unittest.Logger(), conf, unittest.WorkerTopologyFixture(1), registry, registry, nil)
	require.Error(t, err)
}
