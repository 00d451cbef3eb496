package chart

import (
	"github.com/agnivade/levenshtein"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// AddonID identifies an add-on in the registry.
type AddonID string

const (
	// AddonCNPG provisions a CloudNativePG PostgreSQL cluster.
	AddonCNPG AddonID = "cnpg"
	// AddonDask provisions a Dask distributed-compute cluster.
	AddonDask AddonID = "dask"
	// AddonPersistence provisions a Ceph-backed persistent volume.
	AddonPersistence AddonID = "persistence"
	// AddonNFS mounts an external NFS export.
	AddonNFS AddonID = "nfs"
	// AddonExternalSecrets injects Vault secrets via External Secrets.
	AddonExternalSecrets AddonID = "external_secrets"
	// AddonAutoscaling adds a CPU-based HorizontalPodAutoscaler.
	AddonAutoscaling AddonID = "autoscaling"
)

// Fragment is one manifest document an add-on contributes to the chart,
// keyed by its relative path inside the chart directory.
type Fragment struct {
	// Path is the forward-slash relative path of the manifest (e.g.
	// "templates/cnpg-cluster.yaml").
	Path string
	// Render produces the manifest text. The embedded Helm templating
	// syntax is passed through verbatim.
	Render func(vals Values) string
	// When gates emission on field values (nil means always emit). The
	// database superuser credential fragment uses this: it is only part of
	// the chart when the superuser option is enabled.
	When func(vals Values) bool
}

// AddonDefinition describes one registry entry. Definitions are static and
// read-only after process start; they are never mutated per request.
type AddonDefinition struct {
	ID          AddonID
	Name        string
	Description string
	// Fields lists the form fields the add-on requires, in display order.
	Fields []string

	// Fragments are the manifests this add-on contributes, in emit order.
	Fragments []Fragment
	// ValuesSection renders this add-on's values.yaml contribution.
	ValuesSection func(vals Values) string
	// Summary renders the add-on's line in the generated README component
	// list, derived from the same field values as the manifests.
	Summary func(vals Values) string
}

// Registry is the immutable, ordered add-on table. It is constructed once at
// process start and passed explicitly to the assembler.
type Registry struct {
	order []AddonID
	byID  map[AddonID]AddonDefinition
}

// NewRegistry builds the registry with the portal's add-on set. Declaration
// order (database, compute, volume, NFS, secrets, autoscaling) is the order
// in which the assembler emits add-on contributions.
func NewRegistry() *Registry {
	defs := []AddonDefinition{
		{
			ID:            AddonCNPG,
			Name:          "CloudNativePG Cluster",
			Description:   "Production-grade PostgreSQL cluster with HA and backups",
			Fields: []string{
				"cnpg_instances", "cnpg_storage_size", "cnpg_backup_enabled",
				"cnpg_enable_superuser", "cnpg_superuser_secret_path", "cnpg_superuser_username_key", "cnpg_superuser_password_key",
				"cnpg_app_owner", "cnpg_app_secret_path", "cnpg_app_password_key",
			},
			Fragments:     cnpgFragments(),
			ValuesSection: cnpgValues,
			Summary:       cnpgSummary,
		},
		{
			ID:            AddonDask,
			Name:          "Dask Cluster",
			Description:   "Distributed computing with Dask scheduler and workers",
			Fields:        []string{"worker_replicas", "worker_threads", "worker_memory"},
			Fragments:     daskFragments(),
			ValuesSection: daskValues,
			Summary:       daskSummary,
		},
		{
			ID:            AddonPersistence,
			Name:          "Persistent Volume",
			Description:   "CIRRUS storage",
			Fields:        []string{"pv_access_mode", "pv_storage_size", "pv_mount_path"},
			Fragments:     persistenceFragments(),
			ValuesSection: persistenceValues,
			Summary:       persistenceSummary,
		},
		{
			ID:            AddonNFS,
			Name:          "NFS Volume",
			Description:   "Shared NFS storage - for external servers or Glade (contact cirrus-admin@ucar.edu for Glade access)",
			Fields:        []string{"nfs_server", "nfs_path", "nfs_mount_path", "nfs_readonly"},
			Fragments:     nfsFragments(),
			ValuesSection: nfsValues,
			Summary:       nfsSummary,
		},
		{
			ID:            AddonExternalSecrets,
			Name:          "External Secrets (Vault)",
			Description:   "Inject secrets from bao.k8s.ucar.edu",
			Fields:        []string{"secret_path"},
			Fragments:     externalSecretsFragments(),
			ValuesSection: externalSecretsValues,
			Summary:       externalSecretsSummary,
		},
		{
			ID:            AddonAutoscaling,
			Name:          "Autoscaling",
			Description:   "CPU-based horizontal pod autoscaling",
			Fields:        []string{"min_replicas", "max_replicas", "target_cpu"},
			Fragments:     autoscalingFragments(),
			ValuesSection: autoscalingValues,
			Summary:       autoscalingSummary,
		},
	}

	r := &Registry{
		order: make([]AddonID, 0, len(defs)),
		byID:  make(map[AddonID]AddonDefinition, len(defs)),
	}
	for _, d := range defs {
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r
}

// Lookup retrieves an add-on definition by ID. Unknown IDs yield an
// UNKNOWN_ADDON error carrying a closest-match suggestion when one is near
// enough to be plausible.
func (r *Registry) Lookup(id AddonID) (AddonDefinition, error) {
	if d, ok := r.byID[id]; ok {
		return d, nil
	}

	ctx := map[string]any{"addon": string(id)}
	if s := r.suggest(id); s != "" {
		ctx["suggestion"] = s
	}
	return AddonDefinition{}, errors.NewWithContext(errors.ErrCodeUnknownAddon,
		"unknown add-on: "+string(id), ctx)
}

// All returns the add-on definitions in declaration order.
func (r *Registry) All() []AddonDefinition {
	defs := make([]AddonDefinition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.byID[id])
	}
	return defs
}

// Count returns the number of registered add-ons.
func (r *Registry) Count() int {
	return len(r.order)
}

// suggest returns the nearest known add-on ID within edit distance 3,
// or "" when nothing is close.
func (r *Registry) suggest(id AddonID) string {
	best := ""
	bestDist := 4
	for _, known := range r.order {
		d := levenshtein.ComputeDistance(string(id), string(known))
		if d < bestDist {
			best, bestDist = string(known), d
		}
	}
	return best
}
