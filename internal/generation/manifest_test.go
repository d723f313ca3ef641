package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestEmpty(t *testing.T) {
	manifest := NewManifest("example.com/ops/operations")

	unit, err := manifest.Unit()
	require.NoError(t, err)

	assert.Equal(t, "operations/manifest", unit.Name)
	assert.Equal(t, "operations/manifest.go", unit.Path)
	assert.Contains(t, string(unit.Content), "var Operations = []Operation{}")
	assert.Empty(t, manifest.Names())
}

func TestManifestSortsByUnitName(t *testing.T) {
	manifest := NewManifest("example.com/ops/operations", PackageRef{Collection: "opencv_imgproc", Path: "example.com/ops/imgproc"})
	manifest.Add("opencv_imgproc", "opencv_imgproc/medianBlur", "medianBlur")
	manifest.Add("opencv_imgproc", "opencv_imgproc/Canny", "Canny")
	manifest.Add("extra", "extra/threshold", "threshold")

	assert.Equal(t, []string{"extra/threshold", "opencv_imgproc/Canny", "opencv_imgproc/medianBlur"}, manifest.Names())

	unit, err := manifest.Unit()
	require.NoError(t, err)
	content := string(unit.Content)
	assert.Contains(t, content, `{Unit: "opencv_imgproc/Canny", Name: imgproc.CannyName, Description: imgproc.CannyDescription}`)
	assert.Contains(t, content, `{Unit: "extra/threshold", Name: "threshold"}`)
}
