package deliverable

import (
	"fmt"
	"strings"

	"github.com/axiondata/conveyor/identity"
)

// Deliverable is an immutable-payload container tagging a value with its
// declared type, the stage that produced it, and zero or more stages
// allowed to claim it.
//
// The payload and its type key are fixed at construction. The producer
// may be overwritten and consumers appended — both are metadata for
// disambiguation, not access control: a requester absent from the
// consumers list is still served when the type match is unique.
type Deliverable struct {
	payload   any
	key       identity.TypeKey
	producer  identity.StageID
	consumers []identity.StageID
}

// New wraps payload in a Deliverable keyed by the declared type T.
// Constructing as an interface keeps the value matchable as that
// interface: New[Shape](circle) is resolved by requests for Shape,
// not for circle.
func New[T any](payload T) *Deliverable {
	return &Deliverable{
		payload: payload,
		key:     identity.TypeOf[T](),
	}
}

// Of wraps a value whose declared type has already been erased to any,
// keying it by the dynamic type. Returns identity.ErrTypeTagMissing for
// nil, which carries no type information. Prefer New where the declared
// type is still known.
func Of(payload any) (*Deliverable, error) {
	key, err := identity.KeyOf(payload)
	if err != nil {
		return nil, err
	}
	return &Deliverable{payload: payload, key: key}, nil
}

// Payload returns the held value. It always succeeds.
func (d *Deliverable) Payload() any { return d.payload }

// Type returns the declared-type key captured at construction.
func (d *Deliverable) Type() identity.TypeKey { return d.key }

// Producer returns the identity of the stage that produced this
// deliverable, or identity.Unknown if none was set.
func (d *Deliverable) Producer() identity.StageID { return d.producer }

// SetProducer records the producing stage, replacing any previous value.
// Returns the receiver for chaining.
func (d *Deliverable) SetProducer(s identity.StageID) *Deliverable {
	d.producer = s
	return d
}

// AddConsumer appends stages permitted to claim this deliverable.
// The list is ordered, append-only and may contain duplicates.
// Returns the receiver for chaining.
func (d *Deliverable) AddConsumer(stages ...identity.StageID) *Deliverable {
	d.consumers = append(d.consumers, stages...)
	return d
}

// Consumers returns a copy of the consumer tags in insertion order.
func (d *Deliverable) Consumers() []identity.StageID {
	if len(d.consumers) == 0 {
		return nil
	}
	out := make([]identity.StageID, len(d.consumers))
	copy(out, d.consumers)
	return out
}

// hasConsumer reports whether s appears in the consumer tags.
func (d *Deliverable) hasConsumer(s identity.StageID) bool {
	for _, c := range d.consumers {
		if c == s {
			return true
		}
	}
	return false
}

// SameTypeAs reports whether other shares this deliverable's type key.
// It accepts another *Deliverable or an identity.TypeKey. Matching is
// structural key equality, never object identity.
func (d *Deliverable) SameTypeAs(other any) bool {
	switch o := other.(type) {
	case *Deliverable:
		return o != nil && d.key == o.key
	case identity.TypeKey:
		return d.key == o
	default:
		return false
	}
}

// Describe returns a human-readable summary for diagnostics.
// Never used for matching.
func (d *Deliverable) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "deliverable[%s] producer=%s", d.key, d.producer)
	if len(d.consumers) > 0 {
		names := make([]string, len(d.consumers))
		for i, c := range d.consumers {
			names[i] = c.String()
		}
		fmt.Fprintf(&b, " consumers=[%s]", strings.Join(names, ", "))
	}
	return b.String()
}
