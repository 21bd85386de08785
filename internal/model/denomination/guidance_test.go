package denomination

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupGuidanceKnown(t *testing.T) {
	g := LookupGuidance("Pentecostal")
	assert.Equal(t, "Pentecostal", g.Name)
	assert.Equal(t, "Charismatic and experiential", g.Tone)
}

func TestLookupGuidanceFallsBack(t *testing.T) {
	for _, name := range []string{"", "Quaker", "catholic"} {
		g := LookupGuidance(name)
		assert.Equal(t, Fallback, g.Name, name)
		assert.NotEmpty(t, g.Tone, name)
		assert.NotEmpty(t, g.Focus, name)
	}
}

func TestSeedCoversGuidanceTable(t *testing.T) {
	seeds := Seed()
	require.Len(t, seeds, len(guidanceTable))
	for _, d := range seeds {
		_, ok := guidanceTable[d.Name]
		assert.True(t, ok, d.Name)
	}
}

func TestMemoryStoreListSorted(t *testing.T) {
	store := NewMemoryStore(Seed())
	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, "Adventist", items[0].Name)

	found, ok := store.FindByID(1)
	assert.True(t, ok)
	assert.Equal(t, "Catholic", found.Name)
}
