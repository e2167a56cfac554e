package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupItem(t *testing.T) {
	it, ok := LookupItem("  super   potion ")
	require.True(t, ok)
	assert.Equal(t, "Super Potion", it.Name)
	assert.Equal(t, ItemHeal, it.Kind)

	it, ok = LookupItem("Poké Ball")
	require.True(t, ok)
	assert.Equal(t, "Poke Ball", it.Name)

	it, ok = LookupItem("Moon Ball")
	require.True(t, ok)
	assert.Equal(t, ItemBall, it.Kind)
	assert.Equal(t, DefaultCatchRate, it.CatchRate)

	_, ok = LookupItem("Rare Candy")
	assert.False(t, ok)
	_, ok = LookupItem("")
	assert.False(t, ok)
}

func TestCanonicalItemName(t *testing.T) {
	assert.Equal(t, "Ultra Ball", CanonicalItemName("ultraball"))
	assert.Equal(t, "Rare Candy", CanonicalItemName(" Rare Candy "))
	assert.True(t, IsBall("great ball"))
	assert.False(t, IsBall("potion"))
}

func TestRandSource_Deterministic(t *testing.T) {
	a, b := NewRandSource(1, 2), NewRandSource(1, 2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(10), b.IntN(10))
	}
	assert.Equal(t, 0, a.IntN(0))
}
