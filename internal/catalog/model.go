// Package catalog holds the hand-authored description of the operations to generate.
// Catalog values are immutable: every builder method returns a modified copy.
package catalog

import (
	"cvgen/internal/defaults"
)

type ParamState int

const (
	Input ParamState = iota
	// Produced by the operation; the convenience call path constructs it instead of taking it.
	Output
)

func (s ParamState) String() string {
	if s == Output {
		return "output"
	}
	return "input"
}

type ParamType struct {
	Type        string
	Name        string
	State       ParamState
	IsVariadic  bool
	Default     defaults.Value
	Description string
}

func Param(typeName string) ParamType {
	return ParamType{Type: typeName}
}

func (p ParamType) AsOutput() ParamType {
	p.State = Output
	return p
}

func (p ParamType) Named(name string) ParamType {
	p.Name = name
	return p
}

// Variadic requires the matching declared parameter to be variadic.
func (p ParamType) Variadic() ParamType {
	p.IsVariadic = true
	return p
}

func (p ParamType) WithDefault(value defaults.Value) ParamType {
	p.Default = value
	return p
}

func (p ParamType) WithLiteralDefault(name string) ParamType {
	return p.WithDefault(defaults.LiteralOf(name))
}

func (p ParamType) Describe(text string) ParamType {
	p.Description = text
	return p
}

// Overload is one ordered parameter signature of a Method.
type Overload []ParamType

func (o Overload) HasOutput() bool {
	for _, param := range o {
		if param.State == Output {
			return true
		}
	}
	return false
}

// Method is a catalog entry: an operation that should be generated if a matching declaration exists.
type Method struct {
	Name      string
	Overloads []Overload
	// Declared comment defaults also apply to the parameters the catalog lists.
	AutoDefaults bool
	Description  string
	// Name of the declared parameter treated as the output when no overload marks one.
	OutputName string
}

// NewMethod creates an entry whose only overload takes plain inputs of the given type names.
func NewMethod(name string, autoDefaults bool, typeNames ...string) Method {
	params := make([]ParamType, 0, len(typeNames))
	for _, typeName := range typeNames {
		params = append(params, Param(typeName))
	}

	return NewMethodWith(name, autoDefaults, params...)
}

func NewMethodWith(name string, autoDefaults bool, params ...ParamType) Method {
	return Method{
		Name:         name,
		Overloads:    []Overload{append(Overload(nil), params...)},
		AutoDefaults: autoDefaults,
	}
}

func (m Method) WithOverload(params ...ParamType) Method {
	overloads := make([]Overload, 0, len(m.Overloads)+1)
	overloads = append(overloads, m.Overloads...)
	m.Overloads = append(overloads, append(Overload(nil), params...))
	return m
}

func (m Method) Describe(text string) Method {
	m.Description = text
	return m
}

func (m Method) WithOutputName(name string) Method {
	m.OutputName = name
	return m
}

// Collection groups the entries matched against one declaration source.
type Collection struct {
	Name string
	// Name of the declaration resource the entries are matched against.
	Source  string
	Methods []Method
	byName  map[string][]int
}

func NewCollection(name string, source string, methods ...Method) Collection {
	collection := Collection{
		Name:    name,
		Source:  source,
		Methods: append([]Method(nil), methods...),
		byName:  make(map[string][]int, len(methods)),
	}
	for i, method := range collection.Methods {
		collection.byName[method.Name] = append(collection.byName[method.Name], i)
	}

	return collection
}

// SetOutputDefaults names the output parameter of every entry that does not name one yet.
func (c Collection) SetOutputDefaults(name string) Collection {
	methods := make([]Method, len(c.Methods))
	for i, method := range c.Methods {
		if method.OutputName == "" {
			method.OutputName = name
		}
		methods[i] = method
	}
	c.Methods = methods
	return c
}

// Lookup returns the indices of the entries with exactly the given name.
func (c Collection) Lookup(name string) []int {
	return c.byName[name]
}
