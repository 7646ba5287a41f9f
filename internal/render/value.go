package render

import (
	"errors"
	"fmt"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindScalar
	KindVector
	KindResource
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindResource:
		return "resource"
	default:
		return "invalid"
	}
}

// MaxVectorArity is the widest vector a program uniform accepts.
const MaxVectorArity = 4

// ErrVectorArity is returned when a vector has no elements or more than MaxVectorArity.
var ErrVectorArity = errors.New("vector must have between 1 and 4 elements")

// Value is a program property: a scalar, a 1-4 element vector, or a reference
// to an image resource that occupies a texture unit.
type Value struct {
	kind   ValueKind
	scalar float64
	vector []float64
	ref    string
}

// Scalar wraps a single number.
func Scalar(f float64) Value {
	return Value{kind: KindScalar, scalar: f}
}

// Vector wraps 1 to 4 numbers.
func Vector(v ...float64) (Value, error) {
	if len(v) == 0 || len(v) > MaxVectorArity {
		return Value{}, fmt.Errorf("%w: got %d", ErrVectorArity, len(v))
	}
	return Value{kind: KindVector, vector: append([]float64(nil), v...)}, nil
}

// MustVector is Vector for literals known to be valid.
func MustVector(v ...float64) Value {
	val, err := Vector(v...)
	if err != nil {
		panic(err)
	}
	return val
}

// ResourceRef names an image resource.
func ResourceRef(name string) Value {
	return Value{kind: KindResource, ref: name}
}

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the scalar. It is zero for other kinds.
func (v Value) Float() float64 { return v.scalar }

// Floats returns a copy of the vector elements.
func (v Value) Floats() []float64 { return append([]float64(nil), v.vector...) }

// Ref returns the resource name.
func (v Value) Ref() string { return v.ref }

// Equal reports whether two values hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindVector:
		if len(v.vector) != len(o.vector) {
			return false
		}
		for i := range v.vector {
			if v.vector[i] != o.vector[i] {
				return false
			}
		}
		return true
	case KindResource:
		return v.ref == o.ref
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return fmt.Sprintf("%g", v.scalar)
	case KindVector:
		parts := make([]string, len(v.vector))
		for i, f := range v.vector {
			parts[i] = fmt.Sprintf("%g", f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindResource:
		return "resource(" + v.ref + ")"
	default:
		return "invalid"
	}
}

// SameShape reports whether v and o are the same kind and, for vectors, the
// same arity.
func (v Value) SameShape(o Value) bool {
	return v.kind == o.kind && len(v.vector) == len(o.vector)
}

// Lerp interpolates between two numeric values of the same shape. Resource
// values cannot be interpolated and snap to b once progress reaches 1.
func Lerp(a, b Value, progress float64) (Value, error) {
	if a.kind != b.kind {
		return Value{}, fmt.Errorf("cannot interpolate %s to %s", a.kind, b.kind)
	}
	switch a.kind {
	case KindScalar:
		return Scalar(a.scalar + (b.scalar-a.scalar)*progress), nil
	case KindVector:
		if len(a.vector) != len(b.vector) {
			return Value{}, fmt.Errorf("cannot interpolate vectors of arity %d and %d", len(a.vector), len(b.vector))
		}
		out := make([]float64, len(a.vector))
		for i := range out {
			out[i] = a.vector[i] + (b.vector[i]-a.vector[i])*progress
		}
		return Value{kind: KindVector, vector: out}, nil
	case KindResource:
		if progress >= 1 {
			return b, nil
		}
		return a, nil
	default:
		return Value{}, fmt.Errorf("cannot interpolate %s values", a.kind)
	}
}
