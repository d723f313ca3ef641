package catalog

import (
	"errors"
	"fmt"
	"io"

	"cvgen/internal/defaults"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrUnsupportedSchema = errors.New("unsupported catalog schema")
)

// Catalog documents with a schema version outside this range are rejected.
const SchemaConstraint = ">= 1.0, < 2.0"

type document struct {
	Schema      string           `yaml:"schema"`
	Collections []collectionSpec `yaml:"collections"`
}

type collectionSpec struct {
	Name           string       `yaml:"name"`
	Source         string       `yaml:"source"`
	OutputDefaults string       `yaml:"output_defaults"`
	Methods        []methodSpec `yaml:"methods"`
}

type methodSpec struct {
	Name         string        `yaml:"name"`
	AutoDefaults bool          `yaml:"auto_defaults"`
	Description  string        `yaml:"description"`
	OutputName   string        `yaml:"output_name"`
	Params       []string      `yaml:"params"`
	Overloads    [][]paramSpec `yaml:"overloads"`
}

type defaultSpec struct {
	Literal   string   `yaml:"literal"`
	Construct string   `yaml:"construct"`
	Args      []string `yaml:"args"`
	Value     string   `yaml:"value"`
}

type paramSpec struct {
	Type        string       `yaml:"type"`
	Name        string       `yaml:"name"`
	Output      bool         `yaml:"output"`
	Variadic    bool         `yaml:"variadic"`
	Description string       `yaml:"description"`
	Default     *defaultSpec `yaml:"default"`
}

// A parameter is either a bare type name or a mapping.
func (p *paramSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Type = node.Value
		return nil
	}

	type plain paramSpec
	return node.Decode((*plain)(p))
}

// Load reads a YAML catalog document into collections, in document order.
func Load(r io.Reader) ([]Collection, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if err := checkSchema(doc.Schema); err != nil {
		return nil, err
	}

	collections := make([]Collection, 0, len(doc.Collections))
	for _, spec := range doc.Collections {
		collection, err := spec.build()
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}

	return collections, nil
}

func checkSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("%w: missing schema version", ErrUnsupportedSchema)
	}

	current, err := version.NewVersion(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedSchema, err)
	}

	constraint, err := version.NewConstraint(SchemaConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(current) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, schema, SchemaConstraint)
	}

	return nil
}

func (spec collectionSpec) build() (Collection, error) {
	if spec.Name == "" {
		return Collection{}, fmt.Errorf("%w: collection without a name", ErrInvalidCatalog)
	}

	source := spec.Source
	if source == "" {
		source = spec.Name + ".txt"
	}

	methods := make([]Method, 0, len(spec.Methods))
	for _, methodSpec := range spec.Methods {
		method, err := methodSpec.build()
		if err != nil {
			return Collection{}, fmt.Errorf("collection %s: %w", spec.Name, err)
		}
		methods = append(methods, method)
	}

	collection := NewCollection(spec.Name, source, methods...)
	if spec.OutputDefaults != "" {
		collection = collection.SetOutputDefaults(spec.OutputDefaults)
	}

	return collection, nil
}

func (spec methodSpec) build() (Method, error) {
	if spec.Name == "" {
		return Method{}, fmt.Errorf("%w: method without a name", ErrInvalidCatalog)
	}
	if len(spec.Params) > 0 && len(spec.Overloads) > 0 {
		return Method{}, fmt.Errorf("%w: method %s sets both params and overloads", ErrInvalidCatalog, spec.Name)
	}

	method := NewMethod(spec.Name, spec.AutoDefaults, spec.Params...)
	for i, overloadSpec := range spec.Overloads {
		params := make([]ParamType, 0, len(overloadSpec))
		for _, paramSpec := range overloadSpec {
			param, err := paramSpec.build()
			if err != nil {
				return Method{}, fmt.Errorf("method %s: %w", spec.Name, err)
			}
			params = append(params, param)
		}

		if i == 0 {
			method = NewMethodWith(spec.Name, spec.AutoDefaults, params...)
		} else {
			method = method.WithOverload(params...)
		}
	}

	return method.Describe(spec.Description).WithOutputName(spec.OutputName), nil
}

func (spec paramSpec) build() (ParamType, error) {
	if spec.Type == "" {
		return ParamType{}, fmt.Errorf("%w: parameter without a type", ErrInvalidCatalog)
	}

	param := Param(spec.Type).Named(spec.Name).Describe(spec.Description)
	if spec.Output {
		param = param.AsOutput()
	}
	if spec.Variadic {
		param = param.Variadic()
	}

	if spec.Default != nil {
		value, err := spec.Default.build()
		if err != nil {
			return ParamType{}, err
		}
		param = param.WithDefault(value)
	}

	return param, nil
}

func (spec defaultSpec) build() (defaults.Value, error) {
	set := 0
	for _, field := range []string{spec.Literal, spec.Construct, spec.Value} {
		if field != "" {
			set++
		}
	}
	if set != 1 {
		return defaults.Value{}, fmt.Errorf("%w: a default needs exactly one of literal, construct or value", ErrInvalidCatalog)
	}

	switch {
	case spec.Literal != "":
		return defaults.LiteralOf(spec.Literal), nil
	case spec.Construct != "":
		return defaults.Construct(spec.Construct, spec.Args...), nil
	default:
		return defaults.PrimitiveOf(spec.Value), nil
	}
}
