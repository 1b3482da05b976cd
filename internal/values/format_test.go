package values

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScaled(t *testing.T) {
	v, _ := new(big.Int).SetString("2543210000000000000", 10)
	n, _ := NewInteger(v, 256, false)
	assert.Equal(t, "2.54", Format(n, 18, 2))
	assert.Equal(t, "2.543", Format(n, 18, 3))
}

func TestFormatIdempotentOnString(t *testing.T) {
	s := String("2.54")
	assert.Equal(t, Format(s, 18, 2), Format(String(Format(s, 18, 2)), 18, 2))
}
