package metadata

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coreSource = `// Targeted by JavaCPP version 1.1: DO NOT EDIT THIS FILE

package org.bytedeco.javacpp;

import org.bytedeco.javacpp.*;
import org.bytedeco.javacpp.annotation.*;

public class opencv_core extends org.bytedeco.javacpp.presets.opencv_core {
    static { Loader.load(); }

/** enum cv::CmpTypes */
public static final int
    /** src1 is equal to src2. */
    CMP_EQ = 0,
    /** src1 is greater than src2. */
    CMP_GT = 1;

public static final int CV_8U = 0;

@Namespace("cv") public static class Mat extends Pointer {
    public Mat(Pointer p) { super(p); }
    public native int rows();
}

@Namespace("cv") public static native void add(@ByVal Mat src1, @ByVal Mat src2, @ByVal Mat dst, @ByVal(nullValue = "cv::noArray()") Mat mask/*=cv::noArray()*/, int dtype/*=-1*/);
@Namespace("cv") public static native void add(@ByVal Mat src1, @ByVal Mat src2, @ByVal Mat dst);
@Namespace("cv") public static native @ByVal Scalar sum(@ByVal Mat src);
@Namespace("cv") public static native void merge(@Const Mat... mv);
}
`

func TestRepairMovesTrailingComment(t *testing.T) {
	input := "void f(int a/*=1*/, double b/*=0.5*/)"
	assert.Equal(t, "void f(/*=1*/int a, /*=0.5*/double b)", string(Repair([]byte(input))))
}

func TestRepairIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"no declarations here",
		coreSource,
		"void f(int a/*=1*/,int b/*=2*/)",
		"void g(@Cast(\"bool\") boolean L2gradient/*=false*/)",
		"void h(double... values/*=x*/ )",
	}

	for _, input := range inputs {
		once := Repair([]byte(input))
		twice := Repair(once)
		assert.Equal(t, string(once), string(twice), "input: %q", input)
	}
}

func TestRepairLeavesUnmatchedTextAlone(t *testing.T) {
	input := "void g(@Cast(\"bool\") boolean L2gradient/*=false*/)"
	assert.Equal(t, input, string(Repair([]byte(input))))
}

func TestReadFunctionsAndEnums(t *testing.T) {
	tree, err := Read("opencv_core.txt", strings.NewReader(coreSource))
	require.NoError(t, err)
	assert.Equal(t, "opencv_core.txt", tree.Source)

	functions := tree.Functions()
	names := make([]string, 0, len(functions))
	for _, fn := range functions {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"rows", "add", "add", "sum", "merge"}, names)
	assert.False(t, functions[0].IsStatic)

	add := functions[1]
	assert.True(t, add.IsStatic)
	assert.Equal(t, "void", add.ReturnType.Name)
	require.Len(t, add.Params, 5)
	assert.Equal(t, Parameter{Name: "src1", Type: Type{Name: "Mat"}}, add.Params[0])
	assert.Equal(t, "mask", add.Params[3].Name)
	assert.Equal(t, "cv::noArray()", add.Params[3].Default)
	assert.Equal(t, Parameter{Name: "dtype", Type: Type{Name: "int", IsBuiltIn: true}, Default: "-1"}, add.Params[4])

	assert.Equal(t, "Scalar", functions[3].ReturnType.Name)

	merge := functions[4]
	require.Len(t, merge.Params, 1)
	assert.True(t, merge.Params[0].IsVariadic)
	assert.Equal(t, "Mat", merge.Params[0].Type.Name)
	assert.Equal(t, "mv", merge.Params[0].Name)

	enums := tree.Enums()
	require.Len(t, enums, 2)
	assert.Equal(t, "CmpTypes", enums[0].Name)
	assert.Equal(t, []Constant{{Name: "CMP_EQ", Value: "0"}, {Name: "CMP_GT", Value: "1"}}, enums[0].Constants)
	assert.Equal(t, "opencv_core", enums[1].Name)
	assert.Equal(t, []Constant{{Name: "CV_8U", Value: "0"}}, enums[1].Constants)
}

func TestParseWithoutRepairMisplacesComments(t *testing.T) {
	source := "public class x { public static native void f(int a/*=1*/, int b); }"

	unrepaired, err := Parse("x", []byte(source))
	require.NoError(t, err)
	params := unrepaired.Functions()[0].Params
	assert.Equal(t, "", params[0].Default)
	assert.Equal(t, "1", params[1].Default)

	repaired, err := Read("x", strings.NewReader(source))
	require.NoError(t, err)
	params = repaired.Functions()[0].Params
	assert.Equal(t, "1", params[0].Default)
	assert.Equal(t, "", params[1].Default)
}

func TestReadJavaEnum(t *testing.T) {
	tree, err := Read("x", strings.NewReader("public enum Flip { VERTICAL(0), HORIZONTAL(1), BOTH }"))
	require.NoError(t, err)

	enums := tree.Enums()
	require.Len(t, enums, 1)
	assert.Equal(t, "Flip", enums[0].Name)
	assert.Equal(t, []Constant{{Name: "VERTICAL", Value: "0"}, {Name: "HORIZONTAL", Value: "1"}, {Name: "BOTH"}}, enums[0].Constants)
}

func TestReadEmpty(t *testing.T) {
	tree, err := Read("empty.txt", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tree.Decls)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read("broken.txt", strings.NewReader("public class x { public static native void f(int a, ; }"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "broken.txt:1:")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadIOFailure(t *testing.T) {
	_, err := Read("x", failingReader{})
	assert.True(t, errors.Is(err, ErrIO))
}

func TestReadResource(t *testing.T) {
	resources := fstest.MapFS{"opencv_core.txt": {Data: []byte(coreSource)}}

	tree, err := ReadResource(resources, "opencv_core.txt")
	require.NoError(t, err)
	assert.Len(t, tree.Functions(), 5)

	_, err = ReadResource(resources, "opencv_imgproc.txt")
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestFoldVisitsInSourceOrder(t *testing.T) {
	tree := &Tree{Decls: []Decl{
		&Function{Name: "a"},
		&Enum{Name: "E"},
		&Function{Name: "b"},
	}}

	order := Fold(tree, "", Visitor[string]{
		Function: func(acc string, fn *Function) string { return acc + "f:" + fn.Name + " " },
		Enum:     func(acc string, enum *Enum) string { return acc + "e:" + enum.Name + " " },
	})
	assert.Equal(t, "f:a e:E f:b ", order)

	assert.Equal(t, 0, Fold(nil, 0, Visitor[int]{}))
}

func TestReadRecordsClasses(t *testing.T) {
	tree, err := Read("opencv_core.txt", strings.NewReader(coreSource))
	require.NoError(t, err)

	classes := tree.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "opencv_core", classes[0].Name)
	assert.Equal(t, "Mat", classes[1].Name)
	assert.Equal(t, uint(20), classes[1].Line)
}
