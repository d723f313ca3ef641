package generation

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"

	"cvgen/internal"
	"cvgen/internal/catalog"
	"cvgen/internal/defaults"
	"cvgen/internal/matching"
	"cvgen/internal/metadata"

	"github.com/dave/jennifer/jen"
)

const GeneratedHeader = "Code generated by cvgen. DO NOT EDIT."

// Go types of the primitive declaration types.
var primitiveTypes = map[string]string{
	"boolean": "bool",
	"byte":    "int8",
	"char":    "uint16",
	"short":   "int16",
	"int":     "int32",
	"long":    "int64",
	"float":   "float32",
	"double":  "float64",
	"String":  "string",
}

// Target says where a collection's generated code lives and which binding package it calls.
type Target struct {
	// Import path of the native binding package of the collection's declarations.
	BindingPath string
	// Import path of the package the generated units belong to.
	PackagePath string
}

func (t Target) PackageName() string {
	return path.Base(t.PackagePath)
}

type Unit struct {
	Name string
	// Slash separated path of the unit's file, relative to the output root.
	Path    string
	Content []byte
	// Package level identifiers the unit declares.
	Identifiers []string
}

// Units maps unit names to units.
type Units map[string]Unit

// Emitter qualifies every binding name, type or constant, with the binding of the source that
// declares it. Names no visited source declares stay in the collection's own binding.
type Emitter struct {
	resolver *defaults.Resolver
	// Declaration source name to binding import path.
	bindings map[string]string
	// Classes by the source declaring them. May be nil.
	types *defaults.SymbolTable
}

func NewEmitter(resolver *defaults.Resolver, bindings map[string]string, types *defaults.SymbolTable) *Emitter {
	return &Emitter{resolver: resolver, bindings: bindings, types: types}
}

type callParam struct {
	declared metadata.Parameter
	ident    string
	output   bool
	// Nil when the caller has to supply the parameter.
	fallback *defaults.Resolved
	doc      string
}

type callPath struct {
	ident    string
	function *metadata.Function
	params   []callParam
}

func (p callPath) hasConvenience() bool {
	for _, param := range p.params {
		if param.output || param.fallback != nil {
			return true
		}
	}
	return false
}

// Emit generates the unit of one catalog entry. ok is false when no declaration matched the entry.
func (emitter *Emitter) Emit(collection catalog.Collection, target Target, index int, result *matching.Result) (unit Unit, ok bool, err error) {
	method := collection.Methods[index]
	matches := result.Matched(index)
	if len(matches) == 0 {
		return Unit{}, false, nil
	}

	operation := internal.ExportedName(method.Name)
	file := jen.NewFilePathName(target.PackagePath, target.PackageName())
	file.HeaderComment(GeneratedHeader)
	file.ImportAlias(target.BindingPath, importAlias(target.BindingPath))
	for _, binding := range emitter.bindings {
		file.ImportAlias(binding, importAlias(binding))
	}

	identifiers := []string{operation + "Name", operation + "Description"}
	file.Const().Defs(
		jen.Comment(fmt.Sprintf("%sName is the native name of the operation.", operation)),
		jen.Id(operation+"Name").Op("=").Lit(method.Name),
		jen.Comment(fmt.Sprintf("%sDescription describes the operation.", operation)),
		jen.Id(operation+"Description").Op("=").Lit(method.Description),
	)

	for _, match := range matches {
		ident := operation
		if match.Overload > 0 {
			ident += strconv.Itoa(match.Overload + 1)
		}

		call, err := emitter.plan(method, match, ident)
		if err != nil {
			return Unit{}, false, fmt.Errorf("%s.%s: %w", collection.Name, method.Name, err)
		}

		emitter.explicitPath(file, call, target, method.Description)
		identifiers = append(identifiers, call.ident)
		if call.hasConvenience() {
			emitter.conveniencePath(file, call, target)
			identifiers = append(identifiers, emitter.convenienceName(call))
		}
	}

	var buffer bytes.Buffer
	if err := file.Render(&buffer); err != nil {
		return Unit{}, false, fmt.Errorf("render %s.%s: %w", collection.Name, method.Name, err)
	}

	slog.Debug("emit.unit", "collection", collection.Name, "method", method.Name, "overloads", len(matches))

	return Unit{
		Name:        collection.Name + "/" + method.Name,
		Path:        path.Join(target.PackageName(), internal.SnakeName(method.Name)+".go"),
		Content:     buffer.Bytes(),
		Identifiers: identifiers,
	}, true, nil
}

// Decides, for every declared parameter, whether it is an output, has a default, or must be supplied.
func (emitter *Emitter) plan(method catalog.Method, match matching.Match, ident string) (callPath, error) {
	overload := method.Overloads[match.Overload]
	explicitOutput := overload.HasOutput()
	call := callPath{ident: ident, function: match.Function}

	for i, declared := range match.Function.Params {
		param := callParam{declared: declared, ident: internal.SafeIdent(declared.Name)}
		if param.ident == "" {
			param.ident = fmt.Sprintf("arg%d", i)
		}

		var listed *catalog.ParamType
		if i < len(overload) {
			listed = &overload[i]
			param.doc = listed.Description
		}

		switch {
		case listed != nil && listed.State == catalog.Output:
			param.output = true
		case !explicitOutput && method.OutputName != "" && declared.Name == method.OutputName:
			param.output = true
		}

		if !param.output {
			if listed != nil && !listed.Default.IsZero() {
				resolved, _, err := emitter.resolver.Resolve(listed.Default)
				if err != nil {
					return callPath{}, fmt.Errorf("parameter %s: %w", declared.Name, err)
				}
				param.fallback = &resolved
			} else if declared.HasDefault() && (listed == nil || method.AutoDefaults) {
				param.fallback = emitter.declaredDefault(match.Function, declared)
			}
		}

		call.params = append(call.params, param)
	}

	return call, nil
}

// Declared defaults come from the declaration text, so one that cannot be resolved only makes the parameter mandatory.
func (emitter *Emitter) declaredDefault(fn *metadata.Function, param metadata.Parameter) *defaults.Resolved {
	value, understood := defaults.ParseDeclared(param.Default)
	if !understood {
		slog.Debug("emit.default.skip", "function", fn.Name, "param", param.Name, "default", param.Default)
		return nil
	}

	resolved, ok, err := emitter.resolver.Resolve(value)
	if err != nil || !ok {
		slog.Debug("emit.default.skip", "function", fn.Name, "param", param.Name, "default", param.Default, "err", err)
		return nil
	}

	return &resolved
}

func (emitter *Emitter) explicitPath(file *jen.File, call callPath, target Target, description string) {
	file.Commentf("%s calls %s.", call.ident, signature(call.function))
	if description != "" {
		file.Comment(description)
	}
	for _, param := range call.params {
		if param.doc != "" {
			file.Commentf("  - %s: %s", param.ident, param.doc)
		}
	}

	fn := call.function
	file.Func().Id(call.ident).ParamsFunc(func(g *jen.Group) {
		for _, param := range call.params {
			g.Id(param.ident).Add(emitter.paramType(param.declared, target))
		}
	}).Add(results(emitter.returnType(fn.ReturnType, target))...).BlockFunc(func(g *jen.Group) {
		invocation := jen.Qual(target.BindingPath, internal.ExportedName(fn.Name)).CallFunc(func(g *jen.Group) {
			for _, param := range call.params {
				g.Add(argument(param))
			}
		})
		if isVoid(fn.ReturnType) {
			g.Add(invocation)
		} else {
			g.Return(invocation)
		}
	}).Line()
}

func (emitter *Emitter) convenienceName(call callPath) string {
	return call.ident + "Default"
}

func (emitter *Emitter) convenienceStatements(call callPath, target Target) (outputs []callParam, body []jen.Code, resultIdent string) {
	taken := make(map[string]bool, len(call.params))
	for _, param := range call.params {
		taken[param.ident] = true
		if param.output {
			outputs = append(outputs, param)
		}
	}

	// Outputs of primitive, array or variadic type start as zero values; binding classes are constructed.
	for _, output := range outputs {
		declared := output.declared
		if declared.Type.IsBuiltIn || declared.Type.IsArray || declared.IsVariadic || strings.HasSuffix(declared.Type.Name, "[]") {
			body = append(body, jen.Var().Id(output.ident).Add(emitter.valueType(declared, target)))
		} else {
			body = append(body, jen.Id(output.ident).Op(":=").Add(emitter.constructor(declared.Type.Name, target)).Call())
		}
	}

	invocation := jen.Id(call.ident).CallFunc(func(g *jen.Group) {
		for _, param := range call.params {
			switch {
			case param.output:
				g.Add(argument(param))
			case param.fallback != nil:
				g.Add(emitter.defaultExpr(*param.fallback, target))
			default:
				g.Add(argument(param))
			}
		}
	})

	if isVoid(call.function.ReturnType) {
		body = append(body, invocation)
		return outputs, body, ""
	}

	resultIdent = "result"
	for taken[resultIdent] {
		resultIdent += "_"
	}
	body = append(body, jen.Id(resultIdent).Op(":=").Add(invocation))
	return outputs, body, resultIdent
}

func (emitter *Emitter) conveniencePath(file *jen.File, call callPath, target Target) {
	outputs, body, resultIdent := emitter.convenienceStatements(call, target)

	var resultTypes []jen.Code
	var returned []jen.Code
	for _, output := range outputs {
		resultTypes = append(resultTypes, emitter.valueType(output.declared, target))
		returned = append(returned, jen.Id(output.ident))
	}
	if resultIdent != "" {
		resultTypes = append(resultTypes, emitter.returnType(call.function.ReturnType, target))
		returned = append(returned, jen.Id(resultIdent))
	}
	if len(returned) > 0 {
		body = append(body, jen.Return(returned...))
	}

	name := emitter.convenienceName(call)
	file.Commentf("%s calls %s with its outputs constructed and its defaults supplied.", name, call.ident)
	file.Func().Id(name).ParamsFunc(func(g *jen.Group) {
		for _, param := range call.params {
			if !param.output && param.fallback == nil {
				g.Id(param.ident).Add(emitter.paramType(param.declared, target))
			}
		}
	}).Add(results(resultTypes...)...).Block(body...).Line()
}

func (emitter *Emitter) defaultExpr(resolved defaults.Resolved, target Target) jen.Code {
	switch resolved.Kind {
	case defaults.Literal:
		return jen.Qual(emitter.sourceBinding(resolved.Symbol.Source, target), resolved.Symbol.Name)
	case defaults.Constructed:
		return emitter.constructor(resolved.Type, target).CallFunc(func(g *jen.Group) {
			for i, arg := range resolved.Args {
				if i < len(resolved.ArgSymbols) && resolved.ArgSymbols[i].Name != "" {
					symbol := resolved.ArgSymbols[i]
					g.Qual(emitter.sourceBinding(symbol.Source, target), symbol.Name)
				} else {
					g.Id(arg)
				}
			}
		})
	default:
		return jen.Id(resolved.Token)
	}
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Aliases an import by its last path element, so generated references read like opencv_core.Mat.
func importAlias(importPath string) string {
	return nonIdentifier.ReplaceAllString(path.Base(importPath), "_")
}

func argument(param callParam) jen.Code {
	if param.declared.IsVariadic {
		return jen.Id(param.ident).Op("...")
	}
	return jen.Id(param.ident)
}

func (emitter *Emitter) sourceBinding(source string, target Target) string {
	if binding, found := emitter.bindings[source]; found {
		return binding
	}
	return target.BindingPath
}

func (emitter *Emitter) typeBinding(name string, target Target) string {
	if emitter.types == nil {
		return target.BindingPath
	}
	if class, found := emitter.types.Lookup(baseTypeName(name)); found {
		return emitter.sourceBinding(class.Source, target)
	}
	return target.BindingPath
}

// New<Type> of the binding declaring the type.
func (emitter *Emitter) constructor(name string, target Target) *jen.Statement {
	name = baseTypeName(strings.TrimRight(name, "[]"))
	return jen.Qual(emitter.typeBinding(name, target), "New"+name)
}

func (emitter *Emitter) paramType(param metadata.Parameter, target Target) *jen.Statement {
	if param.IsVariadic {
		return jen.Op("...").Add(emitter.goType(param.Type.Name, target))
	}
	return emitter.goType(param.Type.Name, target)
}

// The type of a parameter held in a variable: variadic parameters become slices.
func (emitter *Emitter) valueType(param metadata.Parameter, target Target) *jen.Statement {
	if param.IsVariadic {
		return jen.Index().Add(emitter.goType(param.Type.Name, target))
	}
	return emitter.goType(param.Type.Name, target)
}

func (emitter *Emitter) returnType(t metadata.Type, target Target) jen.Code {
	if isVoid(t) {
		return nil
	}
	return emitter.goType(t.Name, target)
}

func (emitter *Emitter) goType(name string, target Target) *jen.Statement {
	if element, isArray := strings.CutSuffix(name, "[]"); isArray {
		return jen.Index().Add(emitter.goType(element, target))
	}
	if primitive, found := primitiveTypes[name]; found {
		return jen.Id(primitive)
	}
	return jen.Qual(emitter.typeBinding(name, target), baseTypeName(name))
}

// Drops generic arguments: PointerPointer<Mat> is PointerPointer.
func baseTypeName(name string) string {
	if i := strings.Index(name, "<"); i >= 0 {
		return name[:i]
	}
	return name
}

func isVoid(t metadata.Type) bool {
	return t.Name == "" || t.Name == "void"
}

// Results renders nothing, a single type, or a parenthesized list.
func results(types ...jen.Code) []jen.Code {
	filtered := make([]jen.Code, 0, len(types))
	for _, t := range types {
		if t != nil {
			filtered = append(filtered, t)
		}
	}

	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered
	default:
		return []jen.Code{jen.Parens(jen.List(filtered...))}
	}
}

func signature(fn *metadata.Function) string {
	params := make([]string, 0, len(fn.Params))
	for _, param := range fn.Params {
		typeName := param.Type.Name
		if param.IsVariadic {
			typeName += "..."
		}
		params = append(params, typeName+" "+param.Name)
	}

	return fmt.Sprintf("%s(%s)", fn.Name, strings.Join(params, ", "))
}
