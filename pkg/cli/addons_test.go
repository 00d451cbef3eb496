package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/chart"
)

func TestAddonsCmdJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addons.json")

	err := addonsCmd().Run(context.Background(), []string{
		"addons", "--format", "json", "--output", path,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var list []addonEntry
	require.NoError(t, json.Unmarshal(data, &list))

	require.Len(t, list, chart.NewRegistry().Count())
	assert.Equal(t, "cnpg", list[0].ID)
	assert.Equal(t, "CloudNativePG Cluster", list[0].Name)
	assert.Contains(t, list[0].Fields, "cnpg_instances")
}

func TestAddonsCmdTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addons.txt")

	err := addonsCmd().Run(context.Background(), []string{
		"addons", "--format", "table", "--output", path,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "cnpg")
	assert.Contains(t, out, "autoscaling")
}

func TestAddonsCmdUnknownFormat(t *testing.T) {
	err := addonsCmd().Run(context.Background(), []string{
		"addons", "--format", "xml",
	})
	assert.Error(t, err)
}

func TestAddonListTable(t *testing.T) {
	list := addonList{
		{ID: "cnpg", Name: "CloudNativePG Cluster", Fields: []string{"cnpg_instances", "cnpg_storage_size"}},
	}

	header := list.TableHeader()
	rows := list.TableRows()

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(header))
	assert.Equal(t, "cnpg", rows[0][0])
	assert.Equal(t, "cnpg_instances,cnpg_storage_size", rows[0][2])
}
