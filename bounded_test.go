package conduit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destel/conduit/internal/th"
)

func TestTrySendBounded(t *testing.T) {
	ch := New[int](2)

	assert.Equal(t, Ok, ch.TrySend(1))
	assert.Equal(t, Ok, ch.TrySend(2))
	assert.Equal(t, Exhausted, ch.TrySend(3))
	assert.Equal(t, 2, ch.Size())
}

func TestTrySendRendezvous(t *testing.T) {
	t.Run("fails with no receiver", func(t *testing.T) {
		ch := New[int](0)
		assert.Equal(t, Exhausted, ch.TrySend(42))
	})

	t.Run("hands off to a hanging receiver", func(t *testing.T) {
		ch := New[int](0)

		got := make(chan int, 1)
		go func() {
			v, _ := RecvValue[int](ch)
			got <- v
		}()

		// wait for the receiver to hang
		require.Eventually(t, func() bool {
			return ch.Size() == -1
		}, time.Second, time.Millisecond)

		require.Equal(t, Ok, ch.TrySend(42))
		require.Equal(t, 42, <-got)
	})
}

func TestSchedOnClosedChannel(t *testing.T) {
	ch := New[int](1)
	ch.Close()

	// settlement is synchronous on a closed channel
	sendSettled := false
	ch.SendSched(42, nil, func(ok bool) {
		sendSettled = true
		assert.False(t, ok)
	})
	assert.True(t, sendSettled)

	recvSettled := false
	ch.RecvSched(nil, func(ok bool, v int) {
		recvSettled = true
		assert.False(t, ok)
		assert.Equal(t, 0, v)
	})
	assert.True(t, recvSettled)
}

func TestSchedEagerCommit(t *testing.T) {
	ch := New[int](1)

	sendSettled := false
	ch.SendSched(42, nil, func(ok bool) {
		sendSettled = true
		assert.True(t, ok)
	})
	assert.True(t, sendSettled)
	assert.Equal(t, 1, ch.Size())

	recvSettled := false
	ch.RecvSched(nil, func(ok bool, v int) {
		recvSettled = true
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})
	assert.True(t, recvSettled)
	assert.Equal(t, 0, ch.Size())
}

func TestSchedSettledLater(t *testing.T) {
	t.Run("send settles when a receive arrives", func(t *testing.T) {
		ch := New[int](0)

		settled := false
		ch.SendSched(42, nil, func(ok bool) {
			settled = true
			assert.True(t, ok)
		})
		require.False(t, settled)
		require.Equal(t, 1, ch.Size())

		v, outcome := ch.TryRecv()
		require.Equal(t, Ok, outcome)
		require.Equal(t, 42, v)
		require.True(t, settled)
	})

	t.Run("receive settles when a send arrives", func(t *testing.T) {
		ch := New[int](0)

		settled := false
		ch.RecvSched(nil, func(ok bool, v int) {
			settled = true
			assert.True(t, ok)
			assert.Equal(t, 42, v)
		})
		require.False(t, settled)
		require.Equal(t, -1, ch.Size())

		require.Equal(t, Ok, ch.TrySend(42))
		require.True(t, settled)
	})

	t.Run("queued waiters settle on close", func(t *testing.T) {
		ch := New[int](0)

		var sendOk, recvOk = true, true
		ch.SendSched(42, nil, func(ok bool) { sendOk = ok })
		ch.Close()
		require.False(t, sendOk)

		ch = New[int](0)
		ch.RecvSched(nil, func(ok bool, _ int) { recvOk = ok })
		ch.Close()
		require.False(t, recvOk)
	})
}

func TestSchedAbort(t *testing.T) {
	ch := New[int](0)

	aborted := false
	settled := false
	ch.RecvSched(func() bool { return aborted }, func(bool, int) { settled = true })
	require.Equal(t, -1, ch.Size())

	aborted = true

	// the aborted waiter is discarded without settlement, so the rendezvous
	// send finds no live receiver
	assert.Equal(t, Exhausted, ch.TrySend(42))
	assert.False(t, settled)
	assert.Equal(t, 0, ch.Size())
}

// TestRefillPromotion verifies that hanging senders are promoted into freed
// buffer space in arrival order.
func TestRefillPromotion(t *testing.T) {
	ch := New[int](1)

	require.Equal(t, Ok, ch.TrySend(1))

	var order []int
	ch.SendSched(2, nil, func(ok bool) {
		require.True(t, ok)
		order = append(order, 2)
	})
	ch.SendSched(3, nil, func(ok bool) {
		require.True(t, ok)
		order = append(order, 3)
	})

	// one buffered value plus two hanging senders
	require.Equal(t, 3, ch.Size())

	for want := 1; want <= 3; want++ {
		v, outcome := ch.TryRecv()
		require.Equal(t, Ok, outcome)
		require.Equal(t, want, v)
	}

	require.Equal(t, []int{2, 3}, order)
	require.Equal(t, 0, ch.Size())
}

func TestRendezvousHandoffTiming(t *testing.T) {
	ch := New[int](0)

	t0 := time.Now()
	go func() {
		time.Sleep(th.ReasonableWaitingTime)
		assert.Equal(t, Ok, ch.Send(context.Background(), 42))
	}()

	v, outcome := ch.Recv(context.Background())

	th.ExpectElapsed(t, t0, th.ReasonableWaitingTime)
	require.Equal(t, Ok, outcome)
	require.Equal(t, 42, v)
}
