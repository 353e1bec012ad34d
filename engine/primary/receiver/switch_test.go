package receiver_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/onflow/flow-primary/engine/primary/receiver"
	"github.com/onflow/flow-primary/model/messages"
	"github.com/onflow/flow-primary/utils/unittest"
)

// countingReceiver succeeds on every call and counts them.
type countingReceiver struct {
	calls *atomic.Int64
}

func (c countingReceiver) ReportOwnBatch(context.Context, *messages.OwnBatchReport) error {
	c.calls.Inc()
	return nil
}

func (c countingReceiver) ReportOthersBatch(context.Context, *messages.PeerBatchReport) error {
	c.calls.Inc()
	return nil
}

func (c countingReceiver) WorkerInfo(context.Context) (*messages.WorkerInfoResponse, error) {
	c.calls.Inc()
	return &messages.WorkerInfoResponse{}, nil
}

func TestSwitch(t *testing.T) {
	t.Run("not ready before activation", func(t *testing.T) {
		sw := receiver.NewSwitch()
		assert.False(t, sw.Active())

		assert.ErrorIs(t, sw.ReportOwnBatch(context.Background(), unittest.OwnBatchReportFixture(0)), receiver.ErrNotReady)
		assert.ErrorIs(t, sw.ReportOthersBatch(context.Background(), unittest.PeerBatchReportFixture(0)), receiver.ErrNotReady)
		_, err := sw.WorkerInfo(context.Background())
		assert.ErrorIs(t, err, receiver.ErrNotReady)
	})

	t.Run("delegates after activation", func(t *testing.T) {
		sw := receiver.NewSwitch()
		active := countingReceiver{calls: atomic.NewInt64(0)}
		require.NoError(t, sw.Activate(active))
		assert.True(t, sw.Active())

		assert.NoError(t, sw.ReportOwnBatch(context.Background(), unittest.OwnBatchReportFixture(0)))
		assert.NoError(t, sw.ReportOthersBatch(context.Background(), unittest.PeerBatchReportFixture(0)))
		_, err := sw.WorkerInfo(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(3), active.calls.Load())
	})

	t.Run("activates only once", func(t *testing.T) {
		sw := receiver.NewSwitch()
		first := countingReceiver{calls: atomic.NewInt64(0)}
		second := countingReceiver{calls: atomic.NewInt64(0)}
		require.NoError(t, sw.Activate(first))
		assert.ErrorIs(t, sw.Activate(second), receiver.ErrAlreadyActive)

		assert.NoError(t, sw.ReportOthersBatch(context.Background(), unittest.PeerBatchReportFixture(0)))
		assert.Equal(t, int64(1), first.calls.Load())
		assert.Equal(t, int64(0), second.calls.Load())
	})

	t.Run("concurrent calls during activation", func(t *testing.T) {
		sw := receiver.NewSwitch()
		active := countingReceiver{calls: atomic.NewInt64(0)}
		notReady := atomic.NewInt64(0)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := sw.ReportOthersBatch(context.Background(), unittest.PeerBatchReportFixture(0))
				if err != nil {
					assert.ErrorIs(t, err, receiver.ErrNotReady)
					notReady.Inc()
				}
			}()
		}
		require.NoError(t, sw.Activate(active))
		wg.Wait()

		assert.Equal(t, int64(50), active.calls.Load()+notReady.Load())
	})
}
