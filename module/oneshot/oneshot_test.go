package oneshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneshot(t *testing.T) {
	t.Run("send is observed by wait", func(t *testing.T) {
		sender, receiver := New()
		require.NoError(t, sender.Send())
		assert.True(t, sender.Used())
		assert.NoError(t, receiver.Wait(context.Background()))
	})

	t.Run("drop is observed by wait", func(t *testing.T) {
		sender, receiver := New()
		require.NoError(t, sender.Drop())
		assert.ErrorIs(t, receiver.Wait(context.Background()), ErrDropped)
	})

	t.Run("sender can only be used once", func(t *testing.T) {
		sender, receiver := New()
		require.NoError(t, sender.Send())
		assert.ErrorIs(t, sender.Send(), ErrAlreadyUsed)
		assert.ErrorIs(t, sender.Drop(), ErrAlreadyUsed)
		assert.NoError(t, receiver.Wait(context.Background()))

		sender, receiver = New()
		require.NoError(t, sender.Drop())
		assert.ErrorIs(t, sender.Send(), ErrAlreadyUsed)
		assert.ErrorIs(t, receiver.Wait(context.Background()), ErrDropped)
	})

	t.Run("send never blocks without a waiting receiver", func(t *testing.T) {
		sender, _ := New()
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = sender.Send()
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("send blocked")
		}
	})

	t.Run("wait blocks until signalled", func(t *testing.T) {
		sender, receiver := New()
		result := make(chan error, 1)
		go func() {
			result <- receiver.Wait(context.Background())
		}()

		select {
		case <-result:
			t.Fatal("wait returned before the sender was used")
		case <-time.After(50 * time.Millisecond):
		}

		require.NoError(t, sender.Send())
		select {
		case err := <-result:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("wait did not return after send")
		}
	})

	t.Run("wait returns the context error when cancelled", func(t *testing.T) {
		_, receiver := New()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, receiver.Wait(ctx), context.Canceled)
	})

	t.Run("a sent value wins over a cancelled context", func(t *testing.T) {
		sender, receiver := New()
		require.NoError(t, sender.Send())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, receiver.Wait(ctx))
	})

	t.Run("concurrent use takes effect exactly once", func(t *testing.T) {
		sender, receiver := New()
		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				var err error
				if i%2 == 0 {
					err = sender.Send()
				} else {
					err = sender.Drop()
				}
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, succeeded)

		err := receiver.Wait(context.Background())
		assert.True(t, err == nil || err == ErrDropped)
	})
}
