package ringbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeRwHelpers(buf *Buffer[int]) (read func(t *testing.T, cnt int), write func(t *testing.T, cnt int)) {
	var ir, iw int

	write = func(t *testing.T, cnt int) {
		t.Helper()
		for k := 0; k < cnt; k++ {
			buf.Write(iw)
			iw++
		}
	}

	read = func(t *testing.T, cnt int) {
		t.Helper()

		if ir >= iw {
			_, ok := buf.Read()
			assert.False(t, ok)
			return
		}

		for k := 0; k < cnt; k++ {
			v, ok := buf.Read()

			if ir < iw {
				assert.True(t, ok)
				assert.Equal(t, ir, v)
				ir++
			} else {
				assert.False(t, ok)
			}
		}
	}

	return
}

func TestReadWrite(t *testing.T) {
	var buf Buffer[int]
	read, write := makeRwHelpers(&buf)

	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, buf.Cap())

	read(t, 5) // read from empty buffer

	write(t, 100)

	assert.Equal(t, 100, buf.Len())
	assert.Equal(t, 128, buf.Cap())

	read(t, 100)

	assert.Equal(t, 0, buf.Len())

	// interleave reads and writes so the region wraps around
	for i := 0; i < 50; i++ {
		write(t, 3)
		read(t, 2)
	}

	assert.Equal(t, 50, buf.Len())

	read(t, 50)
	assert.Equal(t, 0, buf.Len())
}

func TestPeekDiscard(t *testing.T) {
	var buf Buffer[int]

	_, ok := buf.Peek()
	assert.False(t, ok)
	assert.False(t, buf.Discard())

	buf.Write(42)
	buf.Write(43)

	v, ok := buf.Peek()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, buf.Len())

	assert.True(t, buf.Discard())

	v, ok = buf.Peek()
	assert.True(t, ok)
	assert.Equal(t, 43, v)
	assert.Equal(t, 1, buf.Len())
}
