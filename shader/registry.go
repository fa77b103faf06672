package shader

import (
	"sort"
	"sync"
	"sync/atomic"
)

// registry is the binding collection of one Kind. Insertions copy the sorted
// slice, so a slice handed out by active is never mutated and the render
// goroutine can walk it while other goroutines register.
type registry struct {
	kind Kind

	mu       sync.Mutex
	bindings []*binding

	dirty     atomic.Bool
	published atomic.Pointer[[]*binding]

	// gen counts resolve passes that found new bindings. Render goroutine only.
	gen uint64
}

// add inserts a binding in (name, key) order. It reports false when the pair
// is already registered; the existing strategy is kept.
func (r *registry) add(name, key, typeName string, bind bindFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.bindings), func(i int) bool {
		return !r.bindings[i].less(name, key)
	})
	if i < len(r.bindings) && r.bindings[i].name == name && r.bindings[i].key == key {
		return false
	}

	next := make([]*binding, 0, len(r.bindings)+1)
	next = append(next, r.bindings[:i]...)
	next = append(next, &binding{name: name, key: key, typeName: typeName, bind: bind, location: -1})
	next = append(next, r.bindings[i:]...)
	r.bindings = next
	r.dirty.Store(true)
	return true
}

// resolve looks up the location of every unresolved binding and publishes
// the collection for binding. It returns the number of lookups made.
func (r *registry) resolve(locate func(name string) int32) int {
	if !r.dirty.Load() {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.bindings {
		if b.resolved {
			continue
		}
		b.location = locate(b.name)
		b.resolved = true
		n++
	}
	r.dirty.Store(false)
	if n > 0 {
		r.gen++
	}
	published := r.bindings
	r.published.Store(&published)
	return n
}

// generation changes every time resolve publishes new bindings.
func (r *registry) generation() uint64 { return r.gen }

// active returns the bindings published by the last resolve pass.
func (r *registry) active() []*binding {
	p := r.published.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (r *registry) infos() []BindingInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BindingInfo, len(r.bindings))
	for i, b := range r.bindings {
		out[i] = BindingInfo{
			Kind:     r.kind,
			Name:     b.name,
			Key:      b.key,
			Type:     b.typeName,
			Location: b.location,
			Resolved: b.resolved,
		}
	}
	return out
}
