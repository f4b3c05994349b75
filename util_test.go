package conduit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSlice(t *testing.T) {
	ch := NewUnbounded[int]()

	go func() {
		SendAll[int](ch, 0, 1, 2, 3, 4)

		// close only after the consumer hangs, so nothing is dropped
		for ch.Size() != -1 {
			time.Sleep(time.Millisecond)
		}
		ch.Close()
	}()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, ToSlice[int](ch))
}

func TestDrain(t *testing.T) {
	ch := NewUnbounded[int]()
	require.True(t, SendAll[int](ch, 1, 2, 3))

	go func() {
		for ch.Size() != -1 {
			time.Sleep(time.Millisecond)
		}
		ch.Close()
	}()

	Drain[int](ch)
	assert.Equal(t, 0, ch.Size())
}

func TestSendAll(t *testing.T) {
	ch := New[int](3)
	require.True(t, SendAll[int](ch, 1, 2, 3))
	assert.Equal(t, 3, ch.Size())

	ch.Close()
	assert.False(t, SendAll[int](ch, 4))
}
