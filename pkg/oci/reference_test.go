package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

func TestParseOutputTarget(t *testing.T) {
	t.Run("local path", func(t *testing.T) {
		ref, err := ParseOutputTarget("./out/myapp")
		require.NoError(t, err)
		assert.False(t, ref.IsOCI)
		assert.Equal(t, "./out/myapp", ref.LocalPath)
		assert.Equal(t, "./out/myapp", ref.String())
		assert.Empty(t, ref.ImageReference())
	})

	t.Run("oci reference with tag", func(t *testing.T) {
		ref, err := ParseOutputTarget("oci://hub.k8s.ucar.edu/cirrus/myapp:0.1.0")
		require.NoError(t, err)
		assert.True(t, ref.IsOCI)
		assert.Equal(t, "hub.k8s.ucar.edu", ref.Registry)
		assert.Equal(t, "cirrus/myapp", ref.Repository)
		assert.Equal(t, "0.1.0", ref.Tag)
		assert.Equal(t, "hub.k8s.ucar.edu/cirrus/myapp:0.1.0", ref.ImageReference())
	})

	t.Run("oci reference without tag", func(t *testing.T) {
		ref, err := ParseOutputTarget("oci://hub.k8s.ucar.edu/cirrus/myapp")
		require.NoError(t, err)
		assert.True(t, ref.IsOCI)
		assert.Empty(t, ref.Tag)

		tagged := ref.WithTag("0.1.0")
		assert.Equal(t, "0.1.0", tagged.Tag)
		assert.Equal(t, "oci://hub.k8s.ucar.edu/cirrus/myapp:0.1.0", tagged.String())
	})

	t.Run("invalid oci reference", func(t *testing.T) {
		_, err := ParseOutputTarget("oci://not a reference")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	})
}
