package tileid_test

import (
	"testing"

	"mapengine/tile/tileid"

	"github.com/stretchr/testify/assert"
)

func TestLess(t *testing.T) {
	a := tileid.ID{Z: 2, X: 1, Y: 1}
	b := tileid.ID{Z: 3, X: 0, Y: 0}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestNormalize_WrapsX(t *testing.T) {
	id := tileid.ID{Z: 2, X: -1, Y: 1}
	got, ok := id.Normalize()
	assert.True(t, ok)
	assert.Equal(t, tileid.ID{Z: 2, X: 3, Y: 1}, got)
}

func TestNormalize_RejectsOutOfRangeY(t *testing.T) {
	id := tileid.ID{Z: 2, X: 0, Y: 4}
	_, ok := id.Normalize()
	assert.False(t, ok)
}

func TestParentChildren(t *testing.T) {
	id := tileid.ID{Z: 3, X: 2, Y: 5}
	parent, ok := id.Parent()
	assert.True(t, ok)
	assert.Equal(t, tileid.ID{Z: 2, X: 1, Y: 2}, parent)

	children := id.Children()
	for _, c := range children {
		p, ok := c.Parent()
		assert.True(t, ok)
		assert.Equal(t, id, p)
	}
}

func TestZeroHasNoParent(t *testing.T) {
	_, ok := tileid.ID{Z: 0}.Parent()
	assert.False(t, ok)
}

func TestAncestorAtAndCovers(t *testing.T) {
	child := tileid.ID{Z: 4, X: 10, Y: 6}
	anc, ok := child.AncestorAt(2)
	assert.True(t, ok)
	assert.True(t, anc.Covers(child))

	_, ok = child.AncestorAt(5)
	assert.False(t, ok)
}
