package environment

import (
	"testing"

	"github.com/danhper/eclair/internal/values"
	"github.com/stretchr/testify/assert"
)

func TestAssignUpdatesEnclosingScope(t *testing.T) {
	root := New()
	root.Declare("x", values.MustInteger(1, 256, false))

	child := root.NewChild()
	child.Assign("x", values.MustInteger(2, 256, false))

	v, ok := root.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "2", v.String())
}

func TestAssignCreatesInCurrentScopeWhenAbsent(t *testing.T) {
	root := New()
	child := root.NewChild()
	child.Assign("y", values.MustInteger(1, 256, false))

	_, ok := root.Get("y")
	assert.False(t, ok)

	v, ok := child.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "1", v.String())
}

func TestLastResultDefaultsToNull(t *testing.T) {
	root := New()
	v, ok := root.Get(LastResultIdent)
	assert.True(t, ok)
	assert.Equal(t, values.KindNull, v.Kind())
}

func TestLastResultVisibleFromNestedScope(t *testing.T) {
	root := New()
	root.SetLastResult(values.MustInteger(42, 256, false))
	child := root.NewChild()
	v, ok := child.Get(LastResultIdent)
	assert.True(t, ok)
	assert.Equal(t, "42", v.String())
}
