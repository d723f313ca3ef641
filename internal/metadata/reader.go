// The package used for reading machine-extracted native declarations into a declaration tree.
package metadata

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var (
	languageOnce sync.Once
	language     *tree_sitter.Language
)

// `/** enum cv::CmpTypes */` marks the constant group that follows it.
var enumTag = regexp.MustCompile(`^/\*\*\s*enum\s+([A-Za-z_][A-Za-z0-9_:]*)\s*\*/$`)

var builtInKinds = map[string]bool{
	"integral_type":       true,
	"floating_point_type": true,
	"boolean_type":        true,
	"void_type":           true,
}

func javaLanguage() *tree_sitter.Language {
	languageOnce.Do(func() {
		language = tree_sitter.NewLanguage(tree_sitter_java.Language())
	})
	return language
}

// Read consumes the whole stream, repairs it and parses it.
// The repair needs the complete text, so nothing is parsed before the stream is exhausted.
func Read(name string, r io.Reader) (*Tree, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, name, err)
	}

	return Parse(name, Repair(source))
}

// Parse turns already repaired declaration text into a Tree.
func Parse(name string, source []byte) (*Tree, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return &Tree{Source: name}, nil
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(javaLanguage()); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	syntax := parser.Parse(source, nil)
	if syntax == nil {
		return nil, fmt.Errorf("%w: %s: parser returned no tree", ErrParse, name)
	}
	defer syntax.Close()

	root := syntax.RootNode()
	if root.HasError() {
		return nil, syntaxError(name, root, source)
	}

	reader := treeReader{source: source, tree: &Tree{Source: name}}
	reader.visitBody(root, "")

	return reader.tree, nil
}

func syntaxError(name string, root *tree_sitter.Node, source []byte) error {
	bad := firstError(root)
	if bad == nil {
		return fmt.Errorf("%w: %s", ErrParse, name)
	}

	position := bad.StartPosition()
	snippet := bad.Utf8Text(source)
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}

	return fmt.Errorf("%w: %s:%d:%d: unexpected %q", ErrParse, name, position.Row+1, position.Column+1, snippet)
}

func firstError(node *tree_sitter.Node) *tree_sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			if bad := firstError(child); bad != nil {
				return bad
			}
		}
	}

	return nil
}

type treeReader struct {
	source []byte
	tree   *Tree
}

func (reader *treeReader) text(node *tree_sitter.Node) string {
	return node.Utf8Text(reader.source)
}

// Visits the members of a program or class body. Owner is the enclosing class name.
func (reader *treeReader) visitBody(body *tree_sitter.Node, owner string) {
	enumName := ""
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "block_comment", "comment":
			if match := enumTag.FindStringSubmatch(reader.text(child)); match != nil {
				enumName = lastSegment(match[1])
			}
			continue
		case "line_comment":
			continue
		case "method_declaration":
			reader.function(child)
		case "field_declaration":
			name := enumName
			if name == "" {
				name = owner
			}
			reader.constants(child, name)
		case "enum_declaration":
			reader.enum(child)
		case "class_declaration", "interface_declaration":
			name := reader.text(child.ChildByFieldName("name"))
			reader.tree.Decls = append(reader.tree.Decls, &Class{Name: name, Line: child.StartPosition().Row + 1})
			if nested := child.ChildByFieldName("body"); nested != nil {
				reader.visitBody(nested, name)
			}
		}
		enumName = ""
	}
}

func (reader *treeReader) function(node *tree_sitter.Node) {
	fn := &Function{
		Name:     reader.text(node.ChildByFieldName("name")),
		IsStatic: hasModifier(node, "static"),
		Line:     node.StartPosition().Row + 1,
	}
	if returnType := node.ChildByFieldName("type"); returnType != nil {
		fn.ReturnType = reader.typeOf(returnType)
	}

	params := node.ChildByFieldName("parameters")
	pending := ""
	for i := uint(0); params != nil && i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "block_comment", "comment":
			if value, ok := defaultComment(reader.text(child)); ok {
				pending = value
			}
		case "formal_parameter", "spread_parameter":
			param := reader.parameter(child)
			if param.Default == "" {
				param.Default = pending
			}
			pending = ""
			fn.Params = append(fn.Params, param)
		}
	}

	reader.tree.Decls = append(reader.tree.Decls, fn)
}

func (reader *treeReader) parameter(node *tree_sitter.Node) Parameter {
	param := Parameter{}
	reader.collectDefault(node, &param)

	if node.Kind() == "formal_parameter" {
		param.Type = reader.typeOf(node.ChildByFieldName("type"))
		param.Name = reader.text(node.ChildByFieldName("name"))
		if node.ChildByFieldName("dimensions") != nil {
			param.Type.Name += "[]"
			param.Type.IsArray = true
		}
		return param
	}

	param.IsVariadic = true
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "modifiers", "marker_annotation", "annotation", "block_comment", "line_comment", "comment":
		case "variable_declarator":
			param.Name = reader.text(child.ChildByFieldName("name"))
		default:
			if param.Type.Name == "" {
				param.Type = reader.typeOf(child)
			}
		}
	}

	return param
}

// A repaired default comment sits after the annotations, which may put it inside the modifiers node.
func (reader *treeReader) collectDefault(node *tree_sitter.Node, param *Parameter) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "block_comment", "comment":
			if value, ok := defaultComment(reader.text(child)); ok {
				param.Default = value
			}
		case "modifiers":
			reader.collectDefault(child, param)
		}
	}
}

func (reader *treeReader) typeOf(node *tree_sitter.Node) Type {
	if node == nil {
		return Type{}
	}
	if node.Kind() == "annotated_type" && node.NamedChildCount() > 0 {
		return reader.typeOf(node.NamedChild(node.NamedChildCount() - 1))
	}

	return Type{
		Name:      strings.Join(strings.Fields(reader.text(node)), " "),
		IsArray:   node.Kind() == "array_type",
		IsBuiltIn: builtInKinds[node.Kind()],
	}
}

// Static final fields form a constant group; JavaCPP emits C++ enums this way.
func (reader *treeReader) constants(node *tree_sitter.Node, name string) {
	if !hasModifier(node, "static") || !hasModifier(node, "final") {
		return
	}
	if fieldType := node.ChildByFieldName("type"); fieldType == nil || fieldType.Kind() != "integral_type" {
		return
	}

	enum := &Enum{Name: name, Line: node.StartPosition().Row + 1}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		constant := Constant{Name: reader.text(child.ChildByFieldName("name"))}
		if value := child.ChildByFieldName("value"); value != nil {
			constant.Value = reader.text(value)
		}
		enum.Constants = append(enum.Constants, constant)
	}

	if len(enum.Constants) > 0 {
		reader.tree.Decls = append(reader.tree.Decls, enum)
	}
}

func (reader *treeReader) enum(node *tree_sitter.Node) {
	enum := &Enum{
		Name: reader.text(node.ChildByFieldName("name")),
		Line: node.StartPosition().Row + 1,
	}

	body := node.ChildByFieldName("body")
	for i := uint(0); body != nil && i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() != "enum_constant" {
			continue
		}
		constant := Constant{Name: reader.text(child.ChildByFieldName("name"))}
		if arguments := child.ChildByFieldName("arguments"); arguments != nil {
			constant.Value = strings.TrimSuffix(strings.TrimPrefix(reader.text(arguments), "("), ")")
		}
		enum.Constants = append(enum.Constants, constant)
	}

	reader.tree.Decls = append(reader.tree.Decls, enum)
}

func hasModifier(node *tree_sitter.Node, modifier string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "modifiers" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			if child.Child(j).Kind() == modifier {
				return true
			}
		}
	}

	return false
}

func defaultComment(text string) (string, bool) {
	if !strings.HasPrefix(text, "/*=") || !strings.HasSuffix(text, "*/") {
		return "", false
	}

	return strings.TrimSpace(text[3 : len(text)-2]), true
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}
