package metadata

// A type as written in a declaration, e.g. `Mat`, `double` or `int[]`.
type Type struct {
	Name      string
	IsArray   bool
	IsBuiltIn bool
}

type Parameter struct {
	Name       string
	Type       Type
	IsVariadic bool
	// The text of an attached `/*=...*/` comment without its delimiters, if any.
	Default string
}

func (p Parameter) HasDefault() bool {
	return p.Default != ""
}

type Function struct {
	Name       string
	Params     []Parameter
	ReturnType Type
	IsStatic   bool
	Line       uint
}

type Constant struct {
	Name  string
	Value string
}

type Enum struct {
	Name      string
	Constants []Constant
	Line      uint
}

// A class or interface declared by the source, such as Mat or Size.
type Class struct {
	Name string
	Line uint
}

// Decl is a *Function, an *Enum or a *Class.
type Decl interface {
	declName() string
}

func (f *Function) declName() string { return f.Name }
func (e *Enum) declName() string     { return e.Name }
func (c *Class) declName() string    { return c.Name }

// Tree holds the declarations recovered from one source, in source order.
type Tree struct {
	Source string
	Decls  []Decl
}

// Visitor holds the callbacks used by Fold. Nil callbacks skip that kind of declaration.
type Visitor[T any] struct {
	Function func(acc T, fn *Function) T
	Enum     func(acc T, enum *Enum) T
	Class    func(acc T, class *Class) T
}

// Fold walks every declaration of the tree in source order, threading the accumulator through the visitor.
func Fold[T any](tree *Tree, acc T, visitor Visitor[T]) T {
	if tree == nil {
		return acc
	}

	for _, decl := range tree.Decls {
		switch d := decl.(type) {
		case *Function:
			if visitor.Function != nil {
				acc = visitor.Function(acc, d)
			}
		case *Enum:
			if visitor.Enum != nil {
				acc = visitor.Enum(acc, d)
			}
		case *Class:
			if visitor.Class != nil {
				acc = visitor.Class(acc, d)
			}
		}
	}

	return acc
}

func (tree *Tree) Functions() []*Function {
	return Fold(tree, []*Function(nil), Visitor[[]*Function]{
		Function: func(acc []*Function, fn *Function) []*Function { return append(acc, fn) },
	})
}

func (tree *Tree) Enums() []*Enum {
	return Fold(tree, []*Enum(nil), Visitor[[]*Enum]{
		Enum: func(acc []*Enum, enum *Enum) []*Enum { return append(acc, enum) },
	})
}

func (tree *Tree) Classes() []*Class {
	return Fold(tree, []*Class(nil), Visitor[[]*Class]{
		Class: func(acc []*Class, class *Class) []*Class { return append(acc, class) },
	})
}
