package matching

import (
	"context"
	"log/slog"

	"cvgen/internal/catalog"
	"cvgen/internal/defaults"
	"cvgen/internal/metadata"
)

// Visit walks the function declarations of the tree and records, for every catalog entry with the
// same name, the first of its overloads the declaration is compatible with.
func Visit(tree *metadata.Tree, collection catalog.Collection) *Result {
	return metadata.Fold(tree, newResult(collection.Name, collection.Source), metadata.Visitor[*Result]{
		Function: func(result *Result, fn *metadata.Function) *Result {
			if !fn.IsStatic {
				return result
			}
			for _, index := range collection.Lookup(fn.Name) {
				method := collection.Methods[index]
				for overloadIndex, overload := range method.Overloads {
					exact, ok := compatible(overload, fn)
					if !ok {
						continue
					}
					result.record(method.Name, Slot{Method: index, Overload: overloadIndex}, Match{Overload: overloadIndex, Function: fn, Exact: exact})
					break
				}
			}
			return result
		},
	})
}

// A declaration is compatible when the overload's types are a prefix of its parameter types.
// Declared parameters past the prefix are kept as extra inputs of the generated call.
func compatible(overload catalog.Overload, fn *metadata.Function) (exact bool, ok bool) {
	if len(fn.Params) < len(overload) {
		return false, false
	}

	for i, param := range overload {
		declared := fn.Params[i]
		if declared.Type.Name != param.Type {
			return false, false
		}
		if param.IsVariadic && !declared.IsVariadic {
			return false, false
		}
	}

	return len(fn.Params) == len(overload), true
}

// An exact declaration outranks a prefix one, a longer prefix declaration outranks a shorter one,
// and on equal rank the later declaration replaces the earlier.
func (r *Result) record(method string, slot Slot, match Match) {
	previous, found := r.slots[slot]
	if !found {
		r.slots[slot] = match
		return
	}

	conflict := Conflict{Slot: slot, Method: method, Kept: match.Function, Dropped: previous.Function}
	switch rank(match, previous) {
	case -1:
		conflict.Kept, conflict.Dropped = previous.Function, match.Function
	case 0:
		conflict.Ambiguous = true
		r.slots[slot] = match
	case 1:
		r.slots[slot] = match
	}
	r.Conflicts = append(r.Conflicts, conflict)

	level := slog.LevelDebug
	if conflict.Ambiguous {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "match.conflict",
		"collection", r.Collection,
		"method", method,
		"overload", slot.Overload,
		"kept_line", conflict.Kept.Line,
		"dropped_line", conflict.Dropped.Line,
		"ambiguous", conflict.Ambiguous)
}

func rank(candidate, current Match) int {
	switch {
	case candidate.Exact && !current.Exact:
		return 1
	case !candidate.Exact && current.Exact:
		return -1
	case len(candidate.Function.Params) > len(current.Function.Params):
		return 1
	case len(candidate.Function.Params) < len(current.Function.Params):
		return -1
	}
	return 0
}

// CollectEnums records every enumerated constant of the tree into the symbol table and returns how many were new.
func CollectEnums(tree *metadata.Tree, symbols *defaults.SymbolTable) int {
	return metadata.Fold(tree, 0, metadata.Visitor[int]{
		Enum: func(added int, enum *metadata.Enum) int {
			for _, constant := range enum.Constants {
				if symbols.Add(defaults.Symbol{Name: constant.Name, Enum: enum.Name, Value: constant.Value, Source: tree.Source}) {
					added++
				}
			}
			return added
		},
	})
}

// CollectTypes records every class the tree declares, so a type name can be traced to its source.
func CollectTypes(tree *metadata.Tree, types *defaults.SymbolTable) int {
	return metadata.Fold(tree, 0, metadata.Visitor[int]{
		Class: func(added int, class *metadata.Class) int {
			if types.Add(defaults.Symbol{Name: class.Name, Source: tree.Source}) {
				added++
			}
			return added
		},
	})
}
