package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/chart"
)

func TestZipRoundTrip(t *testing.T) {
	files := chart.FileSet{
		"Chart.yaml":                "apiVersion: v2\nname: myapp\n",
		"values.yaml":               "replicaCount: 2\n",
		"templates/deployment.yaml": "kind: Deployment\n",
	}

	data, err := Zip("myapp", files)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	want := []string{
		"myapp/Chart.yaml",
		"myapp/templates/deployment.yaml",
		"myapp/values.yaml",
	}
	for i, f := range zr.File {
		assert.Equal(t, want[i], f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		rel := f.Name[len("myapp/"):]
		assert.Equal(t, files[rel], string(content))
	}
}

func TestZipDeterministic(t *testing.T) {
	files := chart.FileSet{"b.yaml": "b", "a.yaml": "a", "c/d.yaml": "d"}

	first, err := Zip("app", files)
	require.NoError(t, err)
	second, err := Zip("app", files)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "myapp-helm-chart.zip", Filename("myapp"))
}
