package reconcile

import (
	"fmt"
	"sort"
)

// Outcome is the tri-state result of an upsert.
type Outcome string

const (
	// OutcomeCreated means no row existed for the natural key and one was inserted.
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means the row existed and at least one attribute changed.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged means the row existed and matched every given attribute.
	OutcomeUnchanged Outcome = "unchanged"
)

// Wrote reports whether the outcome issued a write against the store.
func (o Outcome) Wrote() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// Attrs maps column names to values.
type Attrs map[string]any

// Merge returns a new Attrs holding a's entries overridden by b's.
func (a Attrs) Merge(b Attrs) Attrs {
	out := make(Attrs, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Keys returns the column names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the attributes as "k=v" pairs, used to name natural keys in errors.
func (a Attrs) String() string {
	s := ""
	for i, k := range a.Keys() {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%s=%v", k, a[k])
	}
	return s
}

// Record is implemented by models handled by Upsert. Attributes returns the stored
// column values keyed by column name, used for change detection.
type Record interface {
	Attributes() Attrs
}

// WriteError reports a failed read or write for a single entity.
type WriteError struct {
	// Table is the table the operation targeted.
	Table string
	// Key is the natural key of the entity.
	Key Attrs
	// Op is the failed operation (find, create, update, link).
	Op string
	// Err is the underlying storage error.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s [%s]: %v", e.Op, e.Table, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Tally counts upsert outcomes per entity kind.
type Tally struct {
	counts  map[string]map[Outcome]int
	links   map[string]int
	unlinks map[string]int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		counts:  make(map[string]map[Outcome]int),
		links:   make(map[string]int),
		unlinks: make(map[string]int),
	}
}

// Add records one outcome for the entity kind.
func (t *Tally) Add(entity string, outcome Outcome) {
	m, ok := t.counts[entity]
	if !ok {
		m = make(map[Outcome]int)
		t.counts[entity] = m
	}
	m[outcome]++
}

// AddLink records a newly inserted join row for the relation.
func (t *Tally) AddLink(relation string) {
	t.links[relation]++
}

// AddUnlinks records join rows removed from the relation.
func (t *Tally) AddUnlinks(relation string, n int) {
	if n > 0 {
		t.unlinks[relation] += n
	}
}

// Unlinks returns how many join rows were removed from the relation.
func (t *Tally) Unlinks(relation string) int {
	return t.unlinks[relation]
}

// Count returns how many times the entity kind produced the outcome.
func (t *Tally) Count(entity string, outcome Outcome) int {
	return t.counts[entity][outcome]
}

// Links returns how many join rows were inserted for the relation.
func (t *Tally) Links(relation string) int {
	return t.links[relation]
}

// Writes returns the total number of writes (creates, updates, added and removed links).
func (t *Tally) Writes() int {
	total := 0
	for _, m := range t.counts {
		total += m[OutcomeCreated] + m[OutcomeUpdated]
	}
	for _, n := range t.links {
		total += n
	}
	for _, n := range t.unlinks {
		total += n
	}
	return total
}

// Absorb adds every count of other into t.
func (t *Tally) Absorb(other *Tally) {
	for entity, m := range other.counts {
		if t.counts[entity] == nil {
			t.counts[entity] = make(map[Outcome]int)
		}
		for outcome, n := range m {
			t.counts[entity][outcome] += n
		}
	}
	for relation, n := range other.links {
		t.links[relation] += n
	}
	for relation, n := range other.unlinks {
		t.unlinks[relation] += n
	}
}

// Entities returns the entity kinds seen so far in sorted order.
func (t *Tally) Entities() []string {
	out := make([]string, 0, len(t.counts))
	for k := range t.counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
