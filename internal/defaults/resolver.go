package defaults

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// A literal default names a constant no visited enum declares.
	ErrUnresolvedDefault = errors.New("unresolved default value")
	// A constructed default has the wrong number of arguments for its type.
	ErrArityMismatch = errors.New("constructor arity mismatch")
)

// Allowed argument counts of the value types that can be constructed as defaults.
var knownArity = map[string][]int{
	"Size":         {0, 2},
	"Point":        {0, 2},
	"Point2f":      {0, 2},
	"Scalar":       {0, 1, 2, 3, 4},
	"Rect":         {0, 4},
	"TermCriteria": {0, 3},
}

// Resolved is a default value ready for emission.
type Resolved struct {
	Kind Kind
	// Constant name for literals, the token for primitives.
	Token  string
	Symbol Symbol
	Type   string
	Args   []string
	// Constants named by constructor arguments, by argument position. Numeric arguments leave a zero Symbol.
	ArgSymbols []Symbol
}

func (r Resolved) String() string {
	switch r.Kind {
	case Literal:
		return r.Symbol.Enum + "." + r.Symbol.Name
	case Constructed:
		return Value{Kind: Constructed, Type: r.Type, Args: r.Args}.String()
	default:
		return r.Token
	}
}

type Resolver struct {
	symbols *SymbolTable
	arity   map[string][]int
}

type Option func(*Resolver)

// Allows constructing typeName defaults with any of the given argument counts.
func WithArity(typeName string, counts ...int) Option {
	return func(r *Resolver) {
		r.arity[typeName] = append([]int(nil), counts...)
	}
}

func NewResolver(symbols *SymbolTable, options ...Option) *Resolver {
	resolver := &Resolver{symbols: symbols, arity: make(map[string][]int, len(knownArity))}
	for name, counts := range knownArity {
		resolver.arity[name] = counts
	}
	for _, option := range options {
		option(resolver)
	}

	return resolver
}

// Resolve turns a specification into its emitted form. ok is false when the value has no default.
// Resolve does not modify the resolver, so resolving one value repeatedly gives equal results.
func (r *Resolver) Resolve(value Value) (resolved Resolved, ok bool, err error) {
	switch value.Kind {
	case None:
		return Resolved{}, false, nil
	case Literal:
		symbol, found := r.symbols.Lookup(value.Token)
		if !found {
			return Resolved{}, false, fmt.Errorf("%w: no enum declares %s", ErrUnresolvedDefault, value.Token)
		}
		return Resolved{Kind: Literal, Token: symbol.Name, Symbol: symbol}, true, nil
	case Constructed:
		counts, known := r.arity[value.Type]
		if !known {
			return Resolved{}, false, fmt.Errorf("%w: %s cannot be constructed", ErrArityMismatch, value.Type)
		}
		if !slices.Contains(counts, len(value.Args)) {
			return Resolved{}, false, fmt.Errorf("%w: %s takes %v arguments, got %d", ErrArityMismatch, value.Type, counts, len(value.Args))
		}
		var symbols []Symbol
		for i, arg := range value.Args {
			if IsPrimitiveToken(arg) {
				continue
			}
			symbol, found := r.symbols.Lookup(arg)
			if !found {
				return Resolved{}, false, fmt.Errorf("%w: no enum declares %s, argument %d of %s", ErrUnresolvedDefault, arg, i+1, value.Type)
			}
			if symbols == nil {
				symbols = make([]Symbol, len(value.Args))
			}
			symbols[i] = symbol
		}
		return Resolved{Kind: Constructed, Type: value.Type, Args: append([]string(nil), value.Args...), ArgSymbols: symbols}, true, nil
	case Primitive:
		return Resolved{Kind: Primitive, Token: value.Token}, true, nil
	}

	return Resolved{}, false, fmt.Errorf("unknown default kind %d", value.Kind)
}
