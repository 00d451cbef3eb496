package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	t.Run("known add-on", func(t *testing.T) {
		def, err := reg.Lookup(AddonCNPG)
		require.NoError(t, err)
		assert.Equal(t, AddonCNPG, def.ID)
		assert.Equal(t, "CloudNativePG Cluster", def.Name)
		assert.NotEmpty(t, def.Fields)
		assert.NotEmpty(t, def.Fragments)
	})

	t.Run("unknown add-on is structured", func(t *testing.T) {
		_, err := reg.Lookup("redis")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnknownAddon, errors.CodeOf(err))
	})

	t.Run("near miss carries suggestion", func(t *testing.T) {
		_, err := reg.Lookup("npg")
		require.Error(t, err)

		var se *errors.StructuredError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "cnpg", se.Context["suggestion"])
	})

	t.Run("distant miss carries no suggestion", func(t *testing.T) {
		_, err := reg.Lookup("elasticsearch")
		require.Error(t, err)

		var se *errors.StructuredError
		require.True(t, errors.As(err, &se))
		assert.NotContains(t, se.Context, "suggestion")
	})
}

func TestRegistryOrder(t *testing.T) {
	reg := NewRegistry()
	require.Equal(t, 6, reg.Count())

	want := []AddonID{
		AddonCNPG, AddonDask, AddonPersistence,
		AddonNFS, AddonExternalSecrets, AddonAutoscaling,
	}
	got := make([]AddonID, 0, reg.Count())
	for _, def := range reg.All() {
		got = append(got, def.ID)
	}
	assert.Equal(t, want, got)
}

func TestRegistryDefinitionsComplete(t *testing.T) {
	for _, def := range NewRegistry().All() {
		t.Run(string(def.ID), func(t *testing.T) {
			assert.NotEmpty(t, def.Name)
			assert.NotEmpty(t, def.Description)
			assert.NotEmpty(t, def.Fields)
			require.NotNil(t, def.ValuesSection)
			require.NotNil(t, def.Summary)
			assert.NotEmpty(t, def.ValuesSection(Values{}))
			assert.NotEmpty(t, def.Summary(Values{}))
			for _, f := range def.Fragments {
				assert.NotEmpty(t, f.Path)
				require.NotNil(t, f.Render)
			}
		})
	}
}
