package engine

// Recipe is a known fact mapping two ingredient elements to a result.
type Recipe struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Result string `json:"result"`
}

// Library is an immutable collection of known recipes, consulted but never
// mutated during a session. A given unordered pair maps to at most one
// result; when duplicate pairs appear in the source data the first entry
// wins.
type Library struct {
	recipes  map[string]string // pair key -> result
	byResult map[string][]Pair // result key -> producing pairs, source order
}

// NewLibrary builds a library from a list of recipes.
func NewLibrary(recipes []Recipe) *Library {
	lib := &Library{
		recipes:  make(map[string]string, len(recipes)),
		byResult: make(map[string][]Pair),
	}
	for _, r := range recipes {
		pair := NewPair(r.First, r.Second)
		if pair.First == "" || pair.Second == "" || r.Result == "" {
			continue
		}
		if _, exists := lib.recipes[pair.Key()]; exists {
			continue
		}
		lib.recipes[pair.Key()] = r.Result
		resultKey := Key(r.Result)
		lib.byResult[resultKey] = append(lib.byResult[resultKey], pair)
	}
	return lib
}

// Lookup returns the known result for an unordered pair. The second return
// is false when the pair is not in the library; an unknown pair is not an
// error, it simply has no recorded outcome.
func (l *Library) Lookup(p Pair) (string, bool) {
	result, ok := l.recipes[p.Key()]
	return result, ok
}

// ProducersOf returns every known ingredient pair that yields the given
// result, in the order the recipes were loaded.
func (l *Library) ProducersOf(result string) []Pair {
	return l.byResult[Key(result)]
}

// Len returns the number of recipes in the library.
func (l *Library) Len() int {
	return len(l.recipes)
}
