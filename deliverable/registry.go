package deliverable

import (
	"fmt"
	"sync"

	"github.com/axiondata/conveyor/identity"
)

// Registry holds the deliverables produced so far in a pipeline run and
// resolves "give me the deliverable of type X" requests deterministically.
//
// Internally it is a multimap from type key to insertion-ordered
// deliverables: multiple entries with the same type coexist, and
// resolution reports ambiguity instead of picking one by insertion
// order. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	buckets map[identity.TypeKey][]*Deliverable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[identity.TypeKey][]*Deliverable),
	}
}

// Register inserts d into the bucket for its type key. No deduplication:
// registering two deliverables of the same type is legal and surfaces as
// ambiguity at resolve time, not here.
func (r *Registry) Register(d *Deliverable) error {
	if d == nil {
		return fmt.Errorf("deliverable: register nil deliverable")
	}
	if d.Type().IsZero() {
		return fmt.Errorf("deliverable: register: %w", identity.ErrTypeTagMissing)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets[d.Type()] = append(r.buckets[d.Type()], d)
	return nil
}

// Resolve returns the sole deliverable of the requested type. With no
// requesting stage to filter by, any multi-entry bucket is ambiguous.
func (r *Registry) Resolve(t identity.TypeKey) (*Deliverable, error) {
	return r.ResolveFor(identity.Unknown, t)
}

// ResolveFor resolves the requested type on behalf of a requesting
// stage:
//
//  1. An empty bucket fails with NoProducerError.
//  2. A single entry is returned as-is — consumer tags are advisory, so
//     the requester need not appear in them.
//  3. With several entries, only those tagged for the requester are
//     kept. Exactly one survivor is returned; zero or several fail with
//     AmbiguousError listing every candidate's producer.
//
// The filter is a single pass: there is no fallback to producer identity
// or insertion order.
func (r *Registry) ResolveFor(requester identity.StageID, t identity.TypeKey) (*Deliverable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[t]
	switch len(bucket) {
	case 0:
		return nil, &NoProducerError{Requested: t}
	case 1:
		return bucket[0], nil
	}

	var matches []*Deliverable
	for _, d := range bucket {
		if d.hasConsumer(requester) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// Nothing narrowed the bucket, so every entry stays a candidate.
		return nil, ambiguous(t, bucket)
	default:
		return nil, ambiguous(t, matches)
	}
}

// ResolveFrom resolves the requested type restricted to deliverables
// produced by the given stage — the explicit producer hint. Zero matches
// fail with NoProducerError; several matches from the same producer fail
// with AmbiguousError.
func (r *Registry) ResolveFrom(producer identity.StageID, t identity.TypeKey) (*Deliverable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Deliverable
	for _, d := range r.buckets[t] {
		if d.Producer() == producer {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &NoProducerError{Requested: t}
	case 1:
		return matches[0], nil
	default:
		return nil, ambiguous(t, matches)
	}
}

// ResolveAll returns every deliverable of the requested type in
// registration order, for stages that fan in multiple producers of the
// same type. It never fails; no match yields nil.
func (r *Registry) ResolveAll(t identity.TypeKey) []*Deliverable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[t]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]*Deliverable, len(bucket))
	copy(out, bucket)
	return out
}

// Clear drops every entry. Used between independent pipeline runs
// sharing one registry instance.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = make(map[identity.TypeKey][]*Deliverable)
}

// Len returns the total number of registered deliverables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, bucket := range r.buckets {
		n += len(bucket)
	}
	return n
}

// Types returns the distinct type keys currently registered.
func (r *Registry) Types() []identity.TypeKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]identity.TypeKey, 0, len(r.buckets))
	for k := range r.buckets {
		keys = append(keys, k)
	}
	return keys
}

func ambiguous(t identity.TypeKey, candidates []*Deliverable) *AmbiguousError {
	producers := make([]identity.StageID, len(candidates))
	for i, d := range candidates {
		producers[i] = d.Producer()
	}
	return &AmbiguousError{Requested: t, Producers: producers}
}
