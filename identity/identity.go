// Package identity defines the identity types used to match deliverables
// to the stages that produce and consume them.
//
// A TypeKey is the identity of a payload's declared type, captured once
// at construction. Matching is always against the declared type — a value
// constructed as an interface stays matchable as that interface, never as
// its dynamic class.
//
// A StageID is the identity of a pipeline stage, derived from the stage's
// Go type or from an explicit name. The zero StageID is the Unknown
// sentinel.
package identity

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeTagMissing is returned when a type identity cannot be resolved,
// typically because a nil interface value carries no type information.
var ErrTypeTagMissing = errors.New("identity: type tag missing")

// TypeKey is the stable, comparable identity of a declared type.
// Two TypeKeys are equal iff they identify the same Go type.
// The zero TypeKey identifies no type; see IsZero.
type TypeKey struct {
	rt reflect.Type
}

// TypeOf returns the TypeKey for the type T itself, not for any value's
// dynamic class. TypeOf[Shape]() and TypeOf[Circle]() are distinct keys
// even when Circle implements Shape.
func TypeOf[T any]() TypeKey {
	return TypeKey{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// KeyOf resolves the TypeKey of v's dynamic type, for call sites where the
// declared type has already been erased to any. A nil value carries no
// type information and fails with ErrTypeTagMissing. Prefer the generic
// TypeOf where the declared type is still known.
func KeyOf(v any) (TypeKey, error) {
	if v == nil {
		return TypeKey{}, ErrTypeTagMissing
	}
	return TypeKey{rt: reflect.TypeOf(v)}, nil
}

// IsZero reports whether the key identifies no type.
func (k TypeKey) IsZero() bool { return k.rt == nil }

// String returns a diagnostic name for the type. Never used for matching.
func (k TypeKey) String() string {
	if k.rt == nil {
		return "<missing>"
	}
	return k.rt.String()
}

// StageID identifies a pipeline stage. Stages are identified by their Go
// type (StageOf) or by an explicit name (NamedStage). The zero value is
// the Unknown sentinel used for deliverables whose producer has not been
// set yet.
type StageID struct {
	name string
}

// Unknown is the sentinel identity for an unset producer.
var Unknown StageID

// StageOf derives a StageID from the stage type T, qualified by package
// path so that same-named types in different packages stay distinct.
func StageOf[T any]() StageID {
	return stageOfType(reflect.TypeOf((*T)(nil)).Elem())
}

// StageOfValue derives a StageID from v's dynamic type. A nil value
// yields Unknown.
func StageOfValue(v any) StageID {
	if v == nil {
		return Unknown
	}
	return stageOfType(reflect.TypeOf(v))
}

func stageOfType(rt reflect.Type) StageID {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.PkgPath() != "" {
		return StageID{name: rt.PkgPath() + "." + rt.Name()}
	}
	return StageID{name: rt.String()}
}

// NamedStage returns a StageID with an explicit name. An empty name
// yields Unknown.
func NamedStage(name string) StageID {
	return StageID{name: name}
}

// IsUnknown reports whether the identity is the Unknown sentinel.
func (s StageID) IsUnknown() bool { return s.name == "" }

// String returns the stage name, or "unknown" for the sentinel.
func (s StageID) String() string {
	if s.name == "" {
		return "unknown"
	}
	return s.name
}

var _ fmt.Stringer = TypeKey{}
var _ fmt.Stringer = StageID{}
