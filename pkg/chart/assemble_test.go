package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

func testConfig() AppConfig {
	return AppConfig{
		Name:           "myapp",
		Image:          "hub.k8s.ucar.edu/myapp:1.2",
		Replicas:       2,
		Port:           8080,
		IngressEnabled: true,
		IngressAccess:  AccessExternal,
		Domain:         "myapp.k8s.ucar.edu",
	}
}

func TestAssembleBaseChart(t *testing.T) {
	a := NewAssembler(NewRegistry())

	t.Run("no add-ons yields base files only", func(t *testing.T) {
		cfg := testConfig()
		cfg.IngressEnabled = false
		cfg.Domain = ""

		files, err := a.Assemble(cfg, Selection{Values: Values{}})
		require.NoError(t, err)

		want := []string{
			"Chart.yaml",
			"README.md",
			"templates/_helpers.tpl",
			"templates/deployment.yaml",
			"templates/service.yaml",
			"values.yaml",
		}
		assert.Equal(t, want, files.SortedPaths())
	})

	t.Run("ingress adds manifest and values section", func(t *testing.T) {
		files, err := a.Assemble(testConfig(), Selection{Values: Values{}})
		require.NoError(t, err)

		require.Contains(t, files, "templates/ingress.yaml")
		assert.Contains(t, files["values.yaml"], "ingress:\n  enabled: true\n  access: external")
	})

	t.Run("internal access flows to values", func(t *testing.T) {
		cfg := testConfig()
		cfg.IngressAccess = AccessInternal

		files, err := a.Assemble(cfg, Selection{Values: Values{}})
		require.NoError(t, err)
		assert.Contains(t, files["values.yaml"], "access: internal")
	})

	t.Run("chart metadata names the app", func(t *testing.T) {
		files, err := a.Assemble(testConfig(), Selection{Values: Values{}})
		require.NoError(t, err)
		assert.Contains(t, files["Chart.yaml"], "name: myapp")
		assert.Contains(t, files["Chart.yaml"], "A modular Helm chart for myapp on CIRRUS")
	})

	t.Run("tls secret derived from domain", func(t *testing.T) {
		files, err := a.Assemble(testConfig(), Selection{Values: Values{}})
		require.NoError(t, err)
		assert.Contains(t, files["values.yaml"], "secretName: incommon-cert-myapp")
	})

	t.Run("invalid config fails before rendering", func(t *testing.T) {
		cfg := testConfig()
		cfg.Image = ""
		_, err := a.Assemble(cfg, Selection{Values: Values{}})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	})

	t.Run("unknown add-on fails whole generation", func(t *testing.T) {
		sel := Selection{Addons: []AddonID{AddonDask, "redis"}, Values: Values{}}
		_, err := a.Assemble(testConfig(), sel)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnknownAddon, errors.CodeOf(err))
	})
}

func TestAssembleAddons(t *testing.T) {
	a := NewAssembler(NewRegistry())

	t.Run("cnpg without superuser omits superuser secret", func(t *testing.T) {
		sel := Selection{Addons: []AddonID{AddonCNPG}, Values: Values{}}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Contains(t, files, "templates/cnpg-cluster.yaml")
		assert.Contains(t, files, "templates/cnpg-app-user-secret.yaml")
		assert.NotContains(t, files, "templates/cnpg-superuser-secret.yaml")
		assert.Contains(t, files["values.yaml"], "enabled: false")
	})

	t.Run("cnpg with superuser emits both credential secrets", func(t *testing.T) {
		sel := Selection{
			Addons: []AddonID{AddonCNPG},
			Values: Values{"cnpg_enable_superuser": "true"},
		}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Contains(t, files, "templates/cnpg-app-user-secret.yaml")
		assert.Contains(t, files, "templates/cnpg-superuser-secret.yaml")
	})

	t.Run("missing cnpg fields fall back to defaults", func(t *testing.T) {
		sel := Selection{Addons: []AddonID{AddonCNPG}, Values: Values{}}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Contains(t, files["values.yaml"], "instances: 3")
		assert.Contains(t, files["values.yaml"], "size: 20Gi")
		assert.Contains(t, files["values.yaml"], "owner: app_user")
		assert.Contains(t, files["README.md"], "3-instance PostgreSQL cluster")
	})

	t.Run("dask contributes scheduler and workers", func(t *testing.T) {
		sel := Selection{
			Addons: []AddonID{AddonDask},
			Values: Values{"worker_replicas": "5"},
		}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Contains(t, files, "templates/dask-scheduler-deployment.yaml")
		assert.Contains(t, files, "templates/dask-scheduler-service.yaml")
		assert.Contains(t, files, "templates/dask-workers-deployment.yaml")
		assert.Contains(t, files["values.yaml"], "replicas: 5")
		assert.Contains(t, files["README.md"], "cluster with 5 workers")
	})

	t.Run("both volumes mount in fixed order", func(t *testing.T) {
		sel := Selection{
			Addons: []AddonID{AddonNFS, AddonPersistence},
			Values: Values{"nfs_readonly": "true"},
		}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		dep := files["templates/deployment.yaml"]
		data := strings.Index(dep, "- name: data")
		nfs := strings.Index(dep, "- name: nfs")
		require.GreaterOrEqual(t, data, 0)
		require.GreaterOrEqual(t, nfs, 0)
		assert.Less(t, data, nfs)
		assert.Contains(t, dep, "readOnly: true")

		assert.Contains(t, files, "templates/pvc.yaml")
		assert.Contains(t, files, "templates/nfs-pv.yaml")
		assert.Contains(t, files, "templates/nfs-pvc.yaml")
	})

	t.Run("external secrets wires envFrom", func(t *testing.T) {
		sel := Selection{Addons: []AddonID{AddonExternalSecrets}, Values: Values{}}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Contains(t, files, "templates/external-secret.yaml")
		assert.Contains(t, files["templates/deployment.yaml"], "envFrom:")
		assert.Contains(t, files["templates/deployment.yaml"], "-external-secret")
		assert.Contains(t, files["values.yaml"], "vaultUrl: https://bao.k8s.ucar.edu")
	})

	t.Run("no add-ons keeps deployment free of mounts", func(t *testing.T) {
		files, err := a.Assemble(testConfig(), Selection{Values: Values{}})
		require.NoError(t, err)

		dep := files["templates/deployment.yaml"]
		assert.NotContains(t, dep, "volumeMounts:")
		assert.NotContains(t, dep, "envFrom:")
		assert.NotContains(t, dep, "volumes:")
	})

	t.Run("autoscaling contributes hpa", func(t *testing.T) {
		sel := Selection{
			Addons: []AddonID{AddonAutoscaling},
			Values: Values{"max_replicas": "20"},
		}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Contains(t, files, "templates/hpa.yaml")
		assert.Contains(t, files["values.yaml"], "maxReplicas: 20")
		assert.Contains(t, files["values.yaml"], "targetCPUUtilizationPercentage: 80")
	})

	t.Run("values sections follow registry order", func(t *testing.T) {
		sel := Selection{
			Addons: []AddonID{AddonExternalSecrets, AddonCNPG, AddonDask},
			Values: Values{},
		}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)

		vals := files["values.yaml"]
		cnpg := strings.Index(vals, "\ncnpg:")
		dask := strings.Index(vals, "\ndask:")
		es := strings.Index(vals, "\nexternalSecrets:")
		require.GreaterOrEqual(t, cnpg, 0)
		assert.Less(t, cnpg, dask)
		assert.Less(t, dask, es)
	})

	t.Run("identical input yields identical output", func(t *testing.T) {
		frozen := func() time.Time {
			return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		}
		pinned := NewAssembler(NewRegistry(), WithClock(frozen))

		sel := Selection{
			Addons: []AddonID{AddonCNPG, AddonPersistence},
			Values: Values{"cnpg_instances": "5"},
		}
		first, err := pinned.Assemble(testConfig(), sel)
		require.NoError(t, err)
		second, err := pinned.Assemble(testConfig(), sel)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Contains(t, first["README.md"],
			"*Generated by CIRRUS Helm Chart Generator on 2025-06-01 12:30*")
	})
}

func TestAssembleReadme(t *testing.T) {
	a := NewAssembler(NewRegistry())

	t.Run("ingress enabled lists external access", func(t *testing.T) {
		files, err := a.Assemble(testConfig(), Selection{Values: Values{}})
		require.NoError(t, err)

		readme := files["README.md"]
		assert.Contains(t, readme, "# myapp")
		assert.Contains(t, readme, "View at: **https://myapp.k8s.ucar.edu**")
		assert.Contains(t, readme, "- **External Access**: https://myapp.k8s.ucar.edu (external)")
	})

	t.Run("ingress disabled omits access lines", func(t *testing.T) {
		cfg := testConfig()
		cfg.IngressEnabled = false
		cfg.Domain = ""

		files, err := a.Assemble(cfg, Selection{Values: Values{}})
		require.NoError(t, err)

		readme := files["README.md"]
		assert.NotContains(t, readme, "View at:")
		assert.NotContains(t, readme, "- **External Access**")
	})

	t.Run("nfs read-only warning", func(t *testing.T) {
		sel := Selection{
			Addons: []AddonID{AddonNFS},
			Values: Values{"nfs_readonly": "true"},
		}
		files, err := a.Assemble(testConfig(), sel)
		require.NoError(t, err)
		assert.Contains(t, files["README.md"], "NFS volume is mounted read-only")
	})

	t.Run("database section only with cnpg", func(t *testing.T) {
		with, err := a.Assemble(testConfig(),
			Selection{Addons: []AddonID{AddonCNPG}, Values: Values{}})
		require.NoError(t, err)
		without, err := a.Assemble(testConfig(), Selection{Values: Values{}})
		require.NoError(t, err)

		assert.Contains(t, with["README.md"], "### Database Connection")
		assert.NotContains(t, without["README.md"], "### Database Connection")
	})
}
