package receiver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/engine/primary/receiver"
	"github.com/onflow/flow-primary/utils/unittest"
)

// TestUnavailable checks that every operation of the disabled receiver fails
// with ErrNotReady.
func TestUnavailable(t *testing.T) {
	var r receiver.Receiver = receiver.Unavailable{}
	ctx := context.Background()

	err := r.ReportOwnBatch(ctx, unittest.OwnBatchReportFixture(1))
	assert.ErrorIs(t, err, receiver.ErrNotReady)
	assert.False(t, receiver.IsInternalError(err))

	err = r.ReportOthersBatch(ctx, unittest.PeerBatchReportFixture(1))
	assert.ErrorIs(t, err, receiver.ErrNotReady)

	resp, err := r.WorkerInfo(ctx)
	assert.ErrorIs(t, err, receiver.ErrNotReady)
	assert.Nil(t, resp)
}

func TestInternalError(t *testing.T) {
	cause := assert.AnError
	err := receiver.NewInternalErrorf("wrapped: %w", cause)
	require.True(t, receiver.IsInternalError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, receiver.IsInternalError(cause))
	assert.False(t, receiver.IsInternalError(receiver.ErrNotReady))
}
