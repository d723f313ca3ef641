package defaults

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNone(t *testing.T) {
	resolver := NewResolver(NewSymbolTable())

	_, ok, err := resolver.Resolve(Value{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveLiteralAfterEnumIsVisited(t *testing.T) {
	symbols := NewSymbolTable()
	resolver := NewResolver(symbols)
	compareDefault := LiteralOf("CMP_EQ")

	_, _, err := resolver.Resolve(compareDefault)
	assert.True(t, errors.Is(err, ErrUnresolvedDefault))

	assert.True(t, symbols.Add(Symbol{Name: "CMP_EQ", Enum: "CmpTypes", Value: "0", Source: "opencv_core.txt"}))

	resolved, ok, err := resolver.Resolve(compareDefault)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Literal, resolved.Kind)
	assert.Equal(t, "opencv_core.txt", resolved.Symbol.Source)
	assert.Equal(t, "CmpTypes.CMP_EQ", resolved.String())
}

func TestSymbolTableKeepsFirstDeclaration(t *testing.T) {
	symbols := NewSymbolTable()
	assert.True(t, symbols.Add(Symbol{Name: "BORDER_DEFAULT", Enum: "BorderTypes", Source: "a"}))
	assert.False(t, symbols.Add(Symbol{Name: "BORDER_DEFAULT", Enum: "Other", Source: "b"}))

	symbol, found := symbols.Lookup("BORDER_DEFAULT")
	require.True(t, found)
	assert.Equal(t, "a", symbol.Source)
	assert.Equal(t, 1, symbols.Len())
}

func TestResolveConstructed(t *testing.T) {
	resolver := NewResolver(NewSymbolTable())

	resolved, ok, err := resolver.Resolve(Construct("Size", "1", "1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Size(1, 1)", resolved.String())

	_, _, err = resolver.Resolve(Construct("Size", "1"))
	assert.True(t, errors.Is(err, ErrArityMismatch))

	_, _, err = resolver.Resolve(Construct("noArray"))
	assert.True(t, errors.Is(err, ErrArityMismatch))
}

func TestWithArity(t *testing.T) {
	resolver := NewResolver(NewSymbolTable(), WithArity("Size3", 3))

	_, ok, err := resolver.Resolve(Construct("Size3", "1", "2", "3"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolveIsRepeatable(t *testing.T) {
	symbols := NewSymbolTable()
	symbols.Add(Symbol{Name: "CMP_EQ", Enum: "CmpTypes", Value: "0"})
	resolver := NewResolver(symbols)

	values := []Value{LiteralOf("CMP_EQ"), Construct("Scalar", "0", "0", "0"), PrimitiveOf("3")}
	for _, value := range values {
		first, _, err := resolver.Resolve(value)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, _, err := resolver.Resolve(value)
			require.NoError(t, err)
			assert.Equal(t, first, again)
			assert.Equal(t, first.String(), again.String())
		}
	}
}

func TestParseDeclared(t *testing.T) {
	cases := map[string]Value{
		"3":                  PrimitiveOf("3"),
		"-1":                 PrimitiveOf("-1"),
		"0.5f":               PrimitiveOf("0.5"),
		"false":              PrimitiveOf("false"),
		"cv::BORDER_DEFAULT": LiteralOf("BORDER_DEFAULT"),
		"cv::Mat::AUTO_STEP": LiteralOf("AUTO_STEP"),
		"cv::Size()":         Construct("Size"),
		"Point(-1, -1)":      Construct("Point", "-1", "-1"),
		"cv::Size(1.5f, 2)":  Construct("Size", "1.5", "2"),
	}

	for text, want := range cases {
		got, ok := ParseDeclared(text)
		assert.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}

	criteria, ok := ParseDeclared("cv::TermCriteria(cv::TermCriteria::COUNT, 5, 1)")
	assert.True(t, ok)
	assert.Equal(t, Construct("TermCriteria", "COUNT", "5", "1"), criteria)

	rejected := []string{
		"",
		"a + b",
		"\"str\"",
		"cv::TermCriteria(cv::TermCriteria::MAX_ITER+cv::TermCriteria::EPS,5,1)",
		"Size(Point(1, 2))",
		"Scalar(-DBL_MAX)",
	}
	for _, text := range rejected {
		_, ok := ParseDeclared(text)
		assert.False(t, ok, text)
	}
}

func TestResolveConstructedArgumentNames(t *testing.T) {
	symbols := NewSymbolTable()
	resolver := NewResolver(symbols)
	criteria := Construct("TermCriteria", "COUNT", "5", "1")

	_, _, err := resolver.Resolve(criteria)
	assert.True(t, errors.Is(err, ErrUnresolvedDefault))

	symbols.Add(Symbol{Name: "COUNT", Enum: "Type", Value: "1", Source: "opencv_core.txt"})

	resolved, ok, err := resolver.Resolve(criteria)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, resolved.ArgSymbols, 3)
	assert.Equal(t, "opencv_core.txt", resolved.ArgSymbols[0].Source)
	assert.Equal(t, Symbol{}, resolved.ArgSymbols[1])

	numeric, _, err := resolver.Resolve(Construct("Size", "1", "1"))
	require.NoError(t, err)
	assert.Nil(t, numeric.ArgSymbols)
}
