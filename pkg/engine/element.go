package engine

import (
	"sort"
	"strings"
)

// Element is a named game entity that is available for combination.
type Element struct {
	// Name is the display name as first observed in the game.
	Name string

	// Discovered indicates the element first appeared during this session
	// as a combination result, rather than being part of the starting set.
	Discovered bool
}

// Key returns the canonical identity of an element name. Names are compared
// case-insensitively and ignoring surrounding whitespace.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Pair is an unordered pair of element names. The zero value is not valid;
// use NewPair, which stores the two names in canonical order so that
// NewPair(a, b) and NewPair(b, a) are identical.
type Pair struct {
	First  string
	Second string
}

// NewPair builds the canonical form of an unordered pair.
func NewPair(a, b string) Pair {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if Key(a) > Key(b) {
		a, b = b, a
	}
	return Pair{First: a, Second: b}
}

// Key returns a stable map key for the pair, insensitive to name casing.
func (p Pair) Key() string {
	return Key(p.First) + "\x00" + Key(p.Second)
}

func (p Pair) String() string {
	return p.First + " + " + p.Second
}

// Inventory is the ordered set of elements available for combination.
// It is append-only: elements are never removed during a session.
type Inventory struct {
	elements []*Element
	index    map[string]int // element key -> insertion sequence
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		index: make(map[string]int),
	}
}

// Add inserts an element if it is not already present and reports whether it
// was new. The discovered flag is only applied on first insertion; an element
// is immutable once created apart from that initial status.
func (inv *Inventory) Add(name string, discovered bool) (*Element, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	if seq, ok := inv.index[Key(name)]; ok {
		return inv.elements[seq], false
	}
	elem := &Element{Name: name, Discovered: discovered}
	inv.index[Key(name)] = len(inv.elements)
	inv.elements = append(inv.elements, elem)
	return elem, true
}

// Has reports whether an element with the given name is present.
func (inv *Inventory) Has(name string) bool {
	_, ok := inv.index[Key(name)]
	return ok
}

// Seq returns the insertion sequence of an element, with 0 being the first
// element ever added. The second return is false if the element is unknown.
func (inv *Inventory) Seq(name string) (int, bool) {
	seq, ok := inv.index[Key(name)]
	return seq, ok
}

// Len returns the number of elements in the inventory.
func (inv *Inventory) Len() int {
	return len(inv.elements)
}

// Names returns all element names in canonical alphabetical order. This is
// the single ordering used both for display and for deterministic pair
// scanning.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.elements))
	for i, e := range inv.elements {
		names[i] = e.Name
	}
	sort.Slice(names, func(i, j int) bool {
		return Key(names[i]) < Key(names[j])
	})
	return names
}

// Discovered returns the elements first seen during this session.
func (inv *Inventory) Discovered() []*Element {
	var out []*Element
	for _, e := range inv.elements {
		if e.Discovered {
			out = append(out, e)
		}
	}
	return out
}
