package relation

import (
	"maps"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// Entry is one related pair with its support.
type Entry struct {
	One, Two graph.Node
	support  map[graph.Element]struct{}
}

func newEntry(one, two graph.Node, support ...graph.Element) *Entry {
	e := &Entry{One: one, Two: two, support: make(map[graph.Element]struct{}, len(support))}
	for _, s := range support {
		e.support[s] = struct{}{}
	}
	return e
}

// Support returns the justifying elements in [graph.Compare] order.
func (e *Entry) Support() []graph.Element {
	return slices.SortedFunc(maps.Keys(e.support), graph.Compare)
}

func (e *Entry) clone() *Entry {
	return &Entry{One: e.One, Two: e.Two, support: maps.Clone(e.support)}
}

// addSupport merges s into the support and reports whether it grew.
func (e *Entry) addSupport(s map[graph.Element]struct{}) bool {
	grew := false
	for el := range s {
		if _, ok := e.support[el]; !ok {
			e.support[el] = struct{}{}
			grew = true
		}
	}
	return grew
}

type pair struct{ one, two graph.Node }

// Relation is a set of node pairs with support. Entries are kept in
// insertion order.
//
// The zero value is not usable - use [New].
type Relation struct {
	entries []*Entry
	index   map[pair]*Entry
	// oneToEntry maps a node to the entries having it as first component.
	// Built on demand, dropped on every mutation.
	oneToEntry map[graph.Node][]*Entry
}

// New creates an empty relation.
func New() *Relation {
	return &Relation{index: make(map[pair]*Entry)}
}

// Size returns the number of pairs.
func (r *Relation) Size() int { return len(r.entries) }

// IsEmpty reports whether the relation has no pairs.
func (r *Relation) IsEmpty() bool { return len(r.entries) == 0 }

// Entries returns the entries in insertion order.
func (r *Relation) Entries() []*Entry { return slices.Clone(r.entries) }

// Entry returns the entry for (one, two), if present.
func (r *Relation) Entry(one, two graph.Node) (*Entry, bool) {
	e, ok := r.index[pair{one, two}]
	return e, ok
}

// Contains reports whether (one, two) is related.
func (r *Relation) Contains(one, two graph.Node) bool {
	_, ok := r.index[pair{one, two}]
	return ok
}

// Pairs returns all pairs sorted by first, then second node.
func (r *Relation) Pairs() [][2]graph.Node {
	result := make([][2]graph.Node, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, [2]graph.Node{e.One, e.Two})
	}
	slices.SortFunc(result, func(a, b [2]graph.Node) int {
		if c := graph.CompareNodes(a[0], b[0]); c != 0 {
			return c
		}
		return graph.CompareNodes(a[1], b[1])
	})
	return result
}

// Clone returns a deep copy; supports are not shared.
func (r *Relation) Clone() *Relation {
	c := New()
	for _, e := range r.entries {
		c.insert(e.clone())
	}
	return c
}

// Equal reports whether both relations hold the same pairs with the same supports.
func (r *Relation) Equal(other *Relation) bool {
	if r.Size() != other.Size() {
		return false
	}
	for p, e := range r.index {
		o, ok := other.index[p]
		if !ok || !maps.Equal(e.support, o.support) {
			return false
		}
	}
	return true
}

// =============================================================================
// Insertion
// =============================================================================

// AddSelfRelated relates n to itself, supported by n. It reports whether the
// pair is new.
func (r *Relation) AddSelfRelated(n graph.Node) bool {
	return r.add(newEntry(n, n, n))
}

// AddRelated relates the endpoints of e, supported by e. It reports whether
// the pair is new.
func (r *Relation) AddRelated(e graph.Edge) bool {
	return r.add(newEntry(e.Source, e.Target, e))
}

// add inserts entry or merges its support into the existing pair.
func (r *Relation) add(entry *Entry) bool {
	if existing, ok := r.index[pair{entry.One, entry.Two}]; ok {
		existing.addSupport(entry.support)
		return false
	}
	r.insert(entry)
	return true
}

func (r *Relation) insert(entry *Entry) {
	r.entries = append(r.entries, entry)
	r.index[pair{entry.One, entry.Two}] = entry
	r.oneToEntry = nil
}

func (r *Relation) reset() {
	r.entries = nil
	r.index = make(map[pair]*Entry)
	r.oneToEntry = nil
}

func (r *Relation) fromOne(n graph.Node) []*Entry {
	if r.oneToEntry == nil {
		r.oneToEntry = make(map[graph.Node][]*Entry)
		for _, e := range r.entries {
			r.oneToEntry[e.One] = append(r.oneToEntry[e.One], e)
		}
	}
	return r.oneToEntry[n]
}

// =============================================================================
// Algebra
// =============================================================================

// DoOr adds all pairs of other; supports of shared pairs are merged.
// It reports whether a new pair was added.
func (r *Relation) DoOr(other *Relation) bool {
	added := false
	for _, e := range other.entries {
		if r.add(e.clone()) {
			added = true
		}
	}
	return added
}

// DoThen replaces r by its composition with other: (a,c) for every (a,b)
// in r and (b,c) in other, supported by both.
func (r *Relation) DoThen(other *Relation) {
	old := r.entries
	r.reset()
	for _, left := range old {
		for _, right := range other.fromOne(left.Two) {
			r.add(composed(left, right))
		}
	}
}

// DoTransitiveClosure extends r with every pair reachable by composing r
// with its value before the call, until nothing new appears.
func (r *Relation) DoTransitiveClosure() {
	base := r.Clone()
	for changed := true; changed; {
		changed = r.doOrThen(base)
	}
}

// doOrThen adds the composition of r with base to r and reports whether a
// new pair appeared.
func (r *Relation) doOrThen(base *Relation) bool {
	added := false
	for _, left := range slices.Clone(r.entries) {
		for _, right := range base.fromOne(left.Two) {
			if r.add(composed(left, right)) {
				added = true
			}
		}
	}
	return added
}

// DoInverse swaps every pair; supports are kept.
func (r *Relation) DoInverse() {
	old := r.entries
	r.reset()
	for _, e := range old {
		r.add(&Entry{One: e.Two, Two: e.One, support: e.support})
	}
}

func composed(left, right *Entry) *Entry {
	e := newEntry(left.One, right.Two)
	e.addSupport(left.support)
	e.addSupport(right.support)
	return e
}
