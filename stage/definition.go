package stage

import (
	"context"
	"fmt"

	"github.com/axiondata/conveyor/deliverable"
	"github.com/axiondata/conveyor/identity"
)

// Definition is a typed single-input single-output stage. The function
// receives the resolved value of type I and its result of type O becomes
// the stage's output deliverable, keyed by the declared type O.
type Definition[I, O any] struct {
	name string
	fn   func(ctx context.Context, in I) (O, error)
	opts Options

	in    I
	inSet bool
}

// NewDefinition wraps a typed function into a Stage named name.
func NewDefinition[I, O any](name string, fn func(ctx context.Context, in I) (O, error), opts ...Option) *Definition[I, O] {
	d := &Definition[I, O]{name: name, fn: fn}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// ID returns the stage identity derived from the definition name.
func (d *Definition[I, O]) ID() identity.StageID {
	return identity.NamedStage(d.name)
}

// RequiredInputTypes declares the single input type I.
func (d *Definition[I, O]) RequiredInputTypes() []identity.TypeKey {
	return []identity.TypeKey{identity.TypeOf[I]()}
}

// Consume captures the resolved input of type I.
func (d *Definition[I, O]) Consume(_ context.Context, inputs map[identity.TypeKey]any) error {
	v, ok := inputs[identity.TypeOf[I]()]
	if !ok {
		return fmt.Errorf("stage %s: missing input of type %s", d.name, identity.TypeOf[I]())
	}
	in, ok := v.(I)
	if !ok {
		return fmt.Errorf("stage %s: input for %s has unexpected payload type %T", d.name, identity.TypeOf[I](), v)
	}
	d.in = in
	d.inSet = true
	return nil
}

// Produce runs the wrapped function and wraps its result, applying the
// configured consumer tags.
func (d *Definition[I, O]) Produce(ctx context.Context) (*deliverable.Deliverable, error) {
	if !d.inSet {
		return nil, fmt.Errorf("stage %s: produce called before consume", d.name)
	}
	out, err := d.fn(ctx, d.in)
	if err != nil {
		return nil, err
	}
	return deliverable.New(out).AddConsumer(d.opts.DeliverTo...), nil
}

// Source is a typed zero-input stage: it declares no required types and
// produces one deliverable of the declared type O.
type Source[O any] struct {
	name string
	fn   func(ctx context.Context) (O, error)
	opts Options
}

// NewSource wraps a typed producer function into a Stage named name.
func NewSource[O any](name string, fn func(ctx context.Context) (O, error), opts ...Option) *Source[O] {
	s := &Source[O]{name: name, fn: fn}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// ID returns the stage identity derived from the source name.
func (s *Source[O]) ID() identity.StageID { return identity.NamedStage(s.name) }

// RequiredInputTypes is empty for a source.
func (s *Source[O]) RequiredInputTypes() []identity.TypeKey { return nil }

// Consume is a no-op for a source.
func (s *Source[O]) Consume(context.Context, map[identity.TypeKey]any) error { return nil }

// Produce runs the wrapped function and wraps its result.
func (s *Source[O]) Produce(ctx context.Context) (*deliverable.Deliverable, error) {
	out, err := s.fn(ctx)
	if err != nil {
		return nil, err
	}
	return deliverable.New(out).AddConsumer(s.opts.DeliverTo...), nil
}

// Sink is a typed consume-only stage: it declares one required type I
// and produces no deliverable.
type Sink[I any] struct {
	name string
	fn   func(ctx context.Context, in I) error

	in    I
	inSet bool
}

// NewSink wraps a typed consumer function into a Stage named name.
func NewSink[I any](name string, fn func(ctx context.Context, in I) error) *Sink[I] {
	return &Sink[I]{name: name, fn: fn}
}

// ID returns the stage identity derived from the sink name.
func (s *Sink[I]) ID() identity.StageID { return identity.NamedStage(s.name) }

// RequiredInputTypes declares the single input type I.
func (s *Sink[I]) RequiredInputTypes() []identity.TypeKey {
	return []identity.TypeKey{identity.TypeOf[I]()}
}

// Consume captures the resolved input of type I.
func (s *Sink[I]) Consume(_ context.Context, inputs map[identity.TypeKey]any) error {
	v, ok := inputs[identity.TypeOf[I]()]
	if !ok {
		return fmt.Errorf("stage %s: missing input of type %s", s.name, identity.TypeOf[I]())
	}
	in, ok := v.(I)
	if !ok {
		return fmt.Errorf("stage %s: input for %s has unexpected payload type %T", s.name, identity.TypeOf[I](), v)
	}
	s.in = in
	s.inSet = true
	return nil
}

// Produce runs the wrapped function; a sink emits no deliverable.
func (s *Sink[I]) Produce(ctx context.Context) (*deliverable.Deliverable, error) {
	if !s.inSet {
		return nil, fmt.Errorf("stage %s: produce called before consume", s.name)
	}
	return nil, s.fn(ctx, s.in)
}

// Compile-time contract checks.
var (
	_ Stage = (*Definition[int, string])(nil)
	_ Stage = (*Source[int])(nil)
	_ Stage = (*Sink[int])(nil)
)
