// Package defaults describes default values of optional parameters and resolves them
// against the constants collected from the declaration sources.
package defaults

import (
	"fmt"
	"strings"
)

type Kind int

const (
	None Kind = iota
	// A reference to a named constant, e.g. CMP_EQ.
	Literal
	// A constructor call with literal arguments, e.g. Size(1, 1).
	Constructed
	// A numeric or boolean token, e.g. 3 or false.
	Primitive
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Constructed:
		return "constructed"
	case Primitive:
		return "primitive"
	default:
		return "none"
	}
}

// Value is a default value specification. The zero Value means no default.
type Value struct {
	Kind  Kind
	Token string
	Type  string
	Args  []string
}

func LiteralOf(name string) Value {
	return Value{Kind: Literal, Token: name}
}

func Construct(typeName string, args ...string) Value {
	return Value{Kind: Constructed, Type: typeName, Args: append([]string(nil), args...)}
}

func PrimitiveOf(token string) Value {
	return Value{Kind: Primitive, Token: token}
}

func (v Value) IsZero() bool {
	return v.Kind == None
}

func (v Value) String() string {
	switch v.Kind {
	case Literal, Primitive:
		return v.Token
	case Constructed:
		return fmt.Sprintf("%s(%s)", v.Type, strings.Join(v.Args, ", "))
	default:
		return ""
	}
}
