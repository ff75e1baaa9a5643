package glsl

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

// goldenCase is a testdata archive: "in", "out" and "packing" lines in the
// comment, the expected program in a "glsl" file.
type goldenCase struct {
	in, out tensor.Shape
	packing ir.Packing
	want    string
}

func parseShape(t *testing.T, s string) tensor.Shape {
	t.Helper()
	var shape tensor.Shape
	for _, p := range strings.Split(s, ",") {
		dim, err := strconv.Atoi(p)
		require.NoError(t, err)
		shape = append(shape, dim)
	}
	return shape
}

func loadGolden(t *testing.T, path, file string) goldenCase {
	t.Helper()
	a, err := txtar.ParseFile(path)
	require.NoError(t, err)

	var gc goldenCase
	for _, line := range strings.Split(string(a.Comment), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		switch fields[0] {
		case "in":
			gc.in = parseShape(t, fields[1])
		case "out":
			gc.out = parseShape(t, fields[1])
		case "packing":
			gc.packing = ir.Unpacked
			if fields[1] == "packed" {
				gc.packing = ir.Packed
			}
		}
	}
	for _, f := range a.Files {
		if f.Name == file {
			gc.want = string(f.Data)
		}
	}
	require.NotEmpty(t, gc.want, "%s: no %q file", path, file)
	return gc
}

func TestReshapeGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			gc := loadGolden(t, path, "glsl")
			p, err := reshape.NewPlan(gc.in, gc.out, gc.packing)
			require.NoError(t, err)

			if diff := cmp.Diff(gc.want, Reshape(p)); diff != "" {
				t.Errorf("Reshape() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReshapeDeterministic(t *testing.T) {
	for _, packing := range []ir.Packing{ir.Unpacked, ir.Packed} {
		a, err := reshape.NewPlan(tensor.Shape{2, 3, 4}, tensor.Shape{4, 6}, packing)
		require.NoError(t, err)
		b, err := reshape.NewPlan(tensor.Shape{2, 3, 4}, tensor.Shape{4, 6}, packing)
		require.NoError(t, err)
		assert.Equal(t, Reshape(a), Reshape(b))
	}
}

func TestReshapeUnpackedHasNoChannelHelpers(t *testing.T) {
	p, err := reshape.NewPlan(tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Unpacked)
	require.NoError(t, err)
	code := Reshape(p)
	assert.NotContains(t, code, "getChannel")
	assert.NotContains(t, code, "imod")
	assert.NotContains(t, code, "baseOffset")
}

func TestFlatIndexFunc(t *testing.T) {
	f, err := ir.FlatFromCoords(tensor.Shape{2, 3, 4, 5}, ir.Unpacked)
	require.NoError(t, err)
	want := "int getFlatIndex(ivec4 coords) {\n" +
		"  return coords.x * 60 + coords.y * 20 + coords.z * 5 + coords.w;\n" +
		"}\n"
	assert.Equal(t, want, FlatIndexFunc(f))
}

func TestCoordsFunc(t *testing.T) {
	c, err := ir.CoordsFromFlatIndex(tensor.Shape{2, 3, 4}, ir.Unpacked)
	require.NoError(t, err)
	want := "ivec3 inputCoordsFromReshapedOutCoords(int index) {\n" +
		"  int c0 = index / 12;\n" +
		"  index -= c0 * 12;\n" +
		"  int c1 = index / 4;\n" +
		"  index -= c1 * 4;\n" +
		"  int c2 = index;\n" +
		"  return ivec3(c0, c1, c2);\n" +
		"}\n"
	assert.Equal(t, want, CoordsFunc(c))
}

func TestCoordsType(t *testing.T) {
	assert.Equal(t, "int", CoordsType(1))
	assert.Equal(t, "ivec4", CoordsType(4))
	assert.Equal(t, "ivec6", CoordsType(6))
	assert.Panics(t, func() { CoordsType(7) })
}

func TestComponents(t *testing.T) {
	assert.Equal(t, []string{"rc"}, Components("rc", 1))
	assert.Equal(t, []string{"rc.x", "rc.y", "rc.z", "rc.w", "rc.u", "rc.v"}, Components("rc", 6))
}
