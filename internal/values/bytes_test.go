package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedBytesResizeLeftPads(t *testing.T) {
	b, err := NewFixedBytes([]byte{0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)
	resized, err := b.Resize(32)
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000001020304", resized.String())
}

func TestFixedBytesResizeNarrows(t *testing.T) {
	b, err := NewFixedBytes([]byte{0, 0, 0, 0, 1, 2, 3, 4})
	require.NoError(t, err)
	resized, err := b.Resize(4)
	require.NoError(t, err)
	assert.Equal(t, FixedBytes{1, 2, 3, 4}, resized)
}

func TestArrayNegativeIndex(t *testing.T) {
	arr := NewArray(IntegerType{256, false},
		MustInteger(10, 256, false),
		MustInteger(20, 256, false),
		MustInteger(30, 256, false),
	)
	v, err := arr.Get(-1)
	require.NoError(t, err)
	assert.Equal(t, "30", v.String())
}

func TestBytesSliceNegative(t *testing.T) {
	b := Bytes{1, 2, 3, 4, 5}
	s, err := b.Slice(-3, -1)
	require.NoError(t, err)
	assert.Equal(t, Bytes{3, 4}, s)
}
