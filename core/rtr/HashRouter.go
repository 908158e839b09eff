package rtr

// HashRouter is a fast exact-match lookup router keyed by selector.
// Keys are remembered in insertion order so listings are stable.
type HashRouter[T any] struct {
	entries map[string]T
	order   []string
}

// NewHashRouter creates a new router with an initialized hashmap.
// It is important to use this method when a new hash router is needed
func NewHashRouter[T any]() *HashRouter[T] {
	return &HashRouter[T]{
		entries: make(map[string]T, 16),
	}
}

// Add registers a value for the given selector, replacing any previous value.
func (hr *HashRouter[T]) Add(path string, value T) {
	if _, ok := hr.entries[path]; !ok {
		hr.order = append(hr.order, path)
	}
	hr.entries[path] = value
}

// Lookup finds the value for the given selector.
func (hr *HashRouter[T]) Lookup(path string) (value T, ok bool) {
	value, ok = hr.entries[path]
	return
}

// Len returns the number of registered selectors.
func (hr *HashRouter[T]) Len() int {
	return len(hr.order)
}

// Each calls fn for every selector in insertion order.
func (hr *HashRouter[T]) Each(fn func(path string, value T)) {
	for _, path := range hr.order {
		fn(path, hr.entries[path])
	}
}
