package selector

// Entry is a selector with the value registered for it
type Entry[V any] struct {
	Selector MessageSelector
	Value    V
}

// Registry keeps one value per selector pattern.
//
// Putting a selector whose pattern is already present replaces the stored
// selector and value in place, keeping the original position. Selectors of
// different kinds never share a slot even when their literals are equal.
//
// A Registry is built during configuration and only read afterwards; it is
// not safe for concurrent writes.
type Registry[V any] struct {
	order   []Pattern
	entries map[Pattern]Entry[V]
}

// NewRegistry creates an empty registry
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{
		entries: make(map[Pattern]Entry[V]),
	}
}

// Put inserts or replaces the value for the selector pattern
func (r *Registry[V]) Put(sel MessageSelector, value V) error {
	p := sel.Pattern()
	if p.IsZero() {
		return ErrEmptyPattern
	}
	if _, exists := r.entries[p]; !exists {
		r.order = append(r.order, p)
	}
	r.entries[p] = Entry[V]{Selector: sel, Value: value}
	return nil
}

// Get returns the value registered for the pattern
func (r *Registry[V]) Get(p Pattern) (V, bool) {
	e, ok := r.entries[p]
	return e.Value, ok
}

// Remove deletes the entry for the pattern
func (r *Registry[V]) Remove(p Pattern) bool {
	if _, ok := r.entries[p]; !ok {
		return false
	}
	delete(r.entries, p)
	for i, o := range r.order {
		if o == p {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries
func (r *Registry[V]) Len() int {
	return len(r.entries)
}

// Entries returns the entries in first-insertion order
func (r *Registry[V]) Entries() []Entry[V] {
	result := make([]Entry[V], 0, len(r.order))
	for _, p := range r.order {
		result = append(result, r.entries[p])
	}
	return result
}
