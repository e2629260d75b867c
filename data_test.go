package asrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIsIdempotent(t *testing.T) {
	d := NewData()
	a := d.Ensure(100)
	b := d.Ensure(100)
	assert.Same(t, a, b)
	assert.Equal(t, 1, d.Len())
	assert.True(t, d.Has(100))
	assert.False(t, d.Has(200))
}

func TestConeReflexivity(t *testing.T) {
	d := NewData()
	ad := d.Ensure(1)
	_, ok := ad.CustomerCone[1]
	assert.True(t, ok, "an AS must belong to its own customer cone as soon as it is created")
	_, ok = ad.ProviderCone[1]
	assert.True(t, ok, "an AS must belong to its own provider cone as soon as it is created")
}

func TestSetRelationshipP2C(t *testing.T) {
	d := NewData()
	d.Ensure(1)
	d.Ensure(2)
	require.True(t, d.setRelationship(1, 2, P2C))

	assert.Equal(t, P2C, d.Get(1).Neighbors[2].Relationship)
	assert.Equal(t, C2P, d.Get(2).Neighbors[1].Relationship)

	_, in := d.Get(1).CustomerCone[2]
	assert.True(t, in, "provider's customer cone gains the new customer")
	_, in = d.Get(2).ProviderCone[1]
	assert.True(t, in, "customer's provider cone gains the new provider")
}

func TestSetRelationshipC2PSwaps(t *testing.T) {
	d := NewData()
	d.Ensure(1)
	d.Ensure(2)
	// 1 is a customer of 2: direction is inverted internally to P2C(2,1).
	require.True(t, d.setRelationship(1, 2, C2P))
	assert.Equal(t, C2P, d.Get(1).Neighbors[2].Relationship)
	assert.Equal(t, P2C, d.Get(2).Neighbors[1].Relationship)
}

func TestSetRelationshipRejectsSecondAssignment(t *testing.T) {
	d := NewData()
	d.Ensure(1)
	d.Ensure(2)
	require.True(t, d.setRelationship(1, 2, P2P))
	assert.False(t, d.setRelationship(1, 2, P2C), "a link already carrying a relationship cannot be reassigned")
	assert.Equal(t, P2P, d.Get(1).Neighbors[2].Relationship)
}

func TestSetRelationshipRejectsCycle(t *testing.T) {
	d := NewData()
	for _, as := range []AS{1, 2, 3} {
		d.Ensure(as)
	}
	require.True(t, d.setRelationship(1, 2, P2C)) // 1 provider of 2
	require.True(t, d.setRelationship(2, 3, P2C)) // 2 provider of 3

	// 3 becoming a provider of 1 would close a cycle: 1 is already in
	// 3's provider cone transitively.
	assert.False(t, d.setRelationship(3, 1, P2C))
	assert.Equal(t, Unknown, d.Get(3).Neighbors[1].Relationship)
}

func TestSetRelationshipPropagatesConesTransitively(t *testing.T) {
	d := NewData()
	for _, as := range []AS{1, 2, 3} {
		d.Ensure(as)
	}
	require.True(t, d.setRelationship(1, 2, P2C))
	require.True(t, d.setRelationship(2, 3, P2C))

	for _, as := range []AS{1, 2, 3} {
		_, in := d.Get(1).CustomerCone[as]
		assert.True(t, in, "1's customer cone must include %d transitively", as)
		_, in = d.Get(3).ProviderCone[as]
		assert.True(t, in, "3's provider cone must include %d transitively", as)
	}
}

func TestSetRelationshipUnknownASFails(t *testing.T) {
	d := NewData()
	d.Ensure(1)
	assert.False(t, d.setRelationship(1, 99, P2P))
}

func TestASNumbersSortedAscending(t *testing.T) {
	d := NewData()
	for _, as := range []AS{30, 10, 20} {
		d.Ensure(as)
	}
	assert.Equal(t, []AS{10, 20, 30}, d.ASNumbers())
}
