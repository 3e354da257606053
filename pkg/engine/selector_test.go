package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryOf(names ...string) *Inventory {
	inv := NewInventory()
	for _, n := range names {
		inv.Add(n, false)
	}
	return inv
}

func TestSelectNextGoalDirected(t *testing.T) {
	// Inventory {A, B, C}, goal G produced by A+B: the goal rule must fire
	// before any exploration.
	inv := inventoryOf("A", "B", "C")
	lib := NewLibrary([]Recipe{
		{First: "A", Second: "B", Result: "G"},
	})
	tracker := NewTracker([]Goal{{Name: "G"}})

	pair, ok := SelectNext(inv, tracker, NewMemory(), lib)
	require.True(t, ok)
	assert.Equal(t, NewPair("A", "B"), pair)
}

func TestSelectNextGoalPriorityOrder(t *testing.T) {
	inv := inventoryOf("A", "B", "C", "D")
	lib := NewLibrary([]Recipe{
		{First: "C", Second: "D", Result: "Second Goal"},
		{First: "A", Second: "B", Result: "First Goal"},
	})
	tracker := NewTracker([]Goal{
		{Name: "First Goal"},
		{Name: "Second Goal"},
	})

	// Declared goal order wins even though the other recipe was loaded first.
	pair, ok := SelectNext(inv, tracker, NewMemory(), lib)
	require.True(t, ok)
	assert.Equal(t, NewPair("A", "B"), pair)
}

func TestSelectNextGoalRecipeTieBreak(t *testing.T) {
	// Two recipes produce the goal. D entered the inventory after B, so the
	// A+B pair was completed earlier and must be preferred.
	inv := inventoryOf("A", "B", "C", "D")
	lib := NewLibrary([]Recipe{
		{First: "C", Second: "D", Result: "G"},
		{First: "A", Second: "B", Result: "G"},
	})
	tracker := NewTracker([]Goal{{Name: "G"}})

	pair, ok := SelectNext(inv, tracker, NewMemory(), lib)
	require.True(t, ok)
	assert.Equal(t, NewPair("A", "B"), pair)
}

func TestSelectNextGoalSkipsMissingIngredients(t *testing.T) {
	inv := inventoryOf("A", "B")
	lib := NewLibrary([]Recipe{
		{First: "A", Second: "X", Result: "G"},
	})
	tracker := NewTracker([]Goal{{Name: "G"}})

	// The goal recipe needs X which is absent; blind exploration takes over.
	pair, ok := SelectNext(inv, tracker, NewMemory(), lib)
	require.True(t, ok)
	assert.Equal(t, NewPair("A", "B"), pair)
}

func TestSelectNextRecipeDirectedExploration(t *testing.T) {
	inv := inventoryOf("A", "B", "C")
	lib := NewLibrary([]Recipe{
		{First: "B", Second: "C", Result: "Something"},
	})

	// No goals: the known recipe beats the alphabetically earlier blind pair.
	pair, ok := SelectNext(inv, NewTracker(nil), NewMemory(), lib)
	require.True(t, ok)
	assert.Equal(t, NewPair("B", "C"), pair)
}

func TestSelectNextBlindExploration(t *testing.T) {
	// Inventory {A, B}, empty library, empty goals: the only pair wins.
	pair, ok := SelectNext(inventoryOf("A", "B"), NewTracker(nil), NewMemory(), NewLibrary(nil))
	require.True(t, ok)
	assert.Equal(t, NewPair("A", "B"), pair)
}

func TestSelectNextBlindCanonicalOrder(t *testing.T) {
	// Insertion order differs from alphabetical order; canonical order rules.
	inv := inventoryOf("C", "A", "B")

	pair, ok := SelectNext(inv, NewTracker(nil), NewMemory(), NewLibrary(nil))
	require.True(t, ok)
	assert.Equal(t, NewPair("A", "B"), pair)
}

func TestSelectNextExhausted(t *testing.T) {
	inv := inventoryOf("A", "B")
	mem := NewMemory()
	_, err := mem.Record(NewPair("A", "B"), "")
	require.NoError(t, err)

	_, ok := SelectNext(inv, NewTracker(nil), mem, NewLibrary(nil))
	assert.False(t, ok, "all pairs tried means exhaustion, not an error")
}

func TestSelectNextFewerThanTwoElements(t *testing.T) {
	_, ok := SelectNext(inventoryOf("A"), NewTracker(nil), NewMemory(), NewLibrary(nil))
	assert.False(t, ok)

	_, ok = SelectNext(NewInventory(), NewTracker(nil), NewMemory(), NewLibrary(nil))
	assert.False(t, ok)
}

func TestSelectNextDeterministic(t *testing.T) {
	inv := inventoryOf("Water", "Fire", "Earth", "Air")
	lib := NewLibrary([]Recipe{
		{First: "Water", Second: "Fire", Result: "Steam"},
		{First: "Earth", Second: "Water", Result: "Mud"},
	})
	tracker := NewTracker([]Goal{{Name: "Mud"}})
	mem := NewMemory()

	first, ok := SelectNext(inv, tracker, mem, lib)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := SelectNext(inv, tracker, mem, lib)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestSelectNextNeverRepeatsAndCoversAllPairs(t *testing.T) {
	// Driving the selector to exhaustion visits every pair exactly once and
	// never exceeds C(n, 2) attempts.
	inv := inventoryOf("A", "B", "C", "D", "E")
	lib := NewLibrary([]Recipe{
		{First: "A", Second: "C", Result: "X"},
		{First: "B", Second: "E", Result: "Y"},
	})
	tracker := NewTracker([]Goal{{Name: "X"}})
	mem := NewMemory()

	n := inv.Len()
	maxPairs := n * (n - 1) / 2

	for i := 0; ; i++ {
		pair, ok := SelectNext(inv, tracker, mem, lib)
		if !ok {
			break
		}
		require.False(t, mem.Tried(pair), "selector returned an already-tried pair: %v", pair)
		_, err := mem.Record(pair, "")
		require.NoError(t, err)
		require.LessOrEqual(t, mem.Len(), maxPairs)
		if i > maxPairs {
			t.Fatal("selector failed to terminate")
		}
	}
	assert.Equal(t, maxPairs, mem.Len())
}

func TestSelectNextScalesDeterministically(t *testing.T) {
	// A larger inventory still yields a stable first pick.
	inv := NewInventory()
	for i := 0; i < 20; i++ {
		inv.Add(fmt.Sprintf("Element %02d", i), false)
	}
	pair, ok := SelectNext(inv, NewTracker(nil), NewMemory(), NewLibrary(nil))
	require.True(t, ok)
	assert.Equal(t, NewPair("Element 00", "Element 01"), pair)
}
