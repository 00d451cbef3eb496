package chart

import (
	"fmt"
	"strings"
)

// Add-on field defaults. These mirror the placeholder values shown on the
// generator form; absent or unparsable submissions fall back to them.
const (
	defaultCNPGInstances       = 3
	defaultCNPGStorage         = "20Gi"
	defaultCNPGAppOwner        = "app_user"
	defaultCNPGAppSecretPath   = "secret/data/myapp/db"
	defaultCNPGAppPasswordKey  = "password"
	defaultCNPGSuperSecretPath = "secret/data/myapp/db-superuser"
	defaultCNPGSuperUserKey    = "username"
	defaultCNPGSuperPassKey    = "password"

	defaultWorkerReplicas = 3
	defaultWorkerThreads  = 4
	defaultWorkerMemory   = "4Gi"

	defaultPVAccessMode = "ReadWriteOnce"
	defaultPVSize       = "10Gi"
	defaultPVMountPath  = "/data"

	defaultNFSServer    = "nfs.example.com"
	defaultNFSPath      = "/export/data"
	defaultNFSMountPath = "/mnt/nfs"

	defaultSecretPath = "secret/data/myapp"

	defaultMinReplicas = 2
	defaultMaxReplicas = 10
	defaultTargetCPU   = 80
)

// yamlBool renders a boolean the way Helm values files spell them.
func yamlBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// valuesDocument builds values.yaml for the generated chart: the base webapp
// block, the ingress block when enabled, then one section per enabled add-on
// in registry order.
func valuesDocument(cfg AppConfig, sel Selection, reg *Registry) string {
	repo, tag := cfg.SplitImage()

	var b strings.Builder
	fmt.Fprintf(&b, `# Modular Helm Chart for %s
# Generated by CIRRUS Helm Chart Generator

# Number of pod replicas
# We recommend 2+ for zero-downtime deployments during server maintenance
replicaCount: %d

webapp:
  name: %s
  group: %s
  path: /  # URL path - typically just / unless your app uses a different base path
  tls:
    fqdn: %s
    secretName: %s
  container:
    image: %s:%s
    port: %d
    memory: 1G
    cpu: 2
`, cfg.Name, cfg.Replicas, cfg.Name, cfg.Name, cfg.Domain, TLSSecretName(cfg.Domain), repo, tag, cfg.Port)

	if cfg.IngressEnabled {
		fmt.Fprintf(&b, `
ingress:
  enabled: true
  access: %s  # 'external' for public access, 'internal' for UCAR network only
`, cfg.IngressAccess)
	}

	for _, def := range reg.All() {
		if sel.Enabled(def.ID) {
			b.WriteString(def.ValuesSection(sel.Values))
		}
	}
	return b.String()
}

func cnpgValues(vals Values) string {
	return fmt.Sprintf(`
cnpg:
  enabled: true
  instances: %d
  storage:
    size: %s
  backup:
    enabled: %s
    retentionPolicy: "30d"

  # App user credentials from External Secrets
  appUser:
    owner: %s
    secretPath: %s
    passwordKey: %s

  # Superuser credentials from External Secrets (optional)
  superUser:
    enabled: %s
    secretPath: %s
    usernameKey: %s
    passwordKey: %s
`,
		vals.Int("cnpg_instances", defaultCNPGInstances),
		vals.Quantity("cnpg_storage_size", defaultCNPGStorage),
		yamlBool(vals.Bool("cnpg_backup_enabled", false)),
		vals.String("cnpg_app_owner", defaultCNPGAppOwner),
		vals.String("cnpg_app_secret_path", defaultCNPGAppSecretPath),
		vals.String("cnpg_app_password_key", defaultCNPGAppPasswordKey),
		yamlBool(vals.Bool("cnpg_enable_superuser", false)),
		vals.String("cnpg_superuser_secret_path", defaultCNPGSuperSecretPath),
		vals.String("cnpg_superuser_username_key", defaultCNPGSuperUserKey),
		vals.String("cnpg_superuser_password_key", defaultCNPGSuperPassKey))
}

func cnpgSummary(vals Values) string {
	return fmt.Sprintf("- **CloudNativePG**: %d-instance PostgreSQL cluster",
		vals.Int("cnpg_instances", defaultCNPGInstances))
}

func daskValues(vals Values) string {
	return fmt.Sprintf(`
dask:
  enabled: true
  scheduler:
    port: 8786
    dashboardPort: 8787
  worker:
    replicas: %d
    threads: %d
    memory: %s
`,
		vals.Int("worker_replicas", defaultWorkerReplicas),
		vals.Int("worker_threads", defaultWorkerThreads),
		vals.Quantity("worker_memory", defaultWorkerMemory))
}

func daskSummary(vals Values) string {
	return fmt.Sprintf("- **Dask**: Distributed computing cluster with %d workers",
		vals.Int("worker_replicas", defaultWorkerReplicas))
}

func persistenceValues(vals Values) string {
	return fmt.Sprintf(`
persistence:
  enabled: true
  storageClass: ceph-kubepv
  accessMode: %s
  size: %s
  mountPath: %s
`,
		vals.AccessMode("pv_access_mode", defaultPVAccessMode),
		vals.Quantity("pv_storage_size", defaultPVSize),
		vals.String("pv_mount_path", defaultPVMountPath))
}

func persistenceSummary(vals Values) string {
	accessDesc := "multi-pod"
	if vals.AccessMode("pv_access_mode", defaultPVAccessMode) == "ReadWriteOnce" {
		accessDesc = "single-pod"
	}
	return fmt.Sprintf("- **Persistent Volume**: %s storage (%s access)",
		vals.Quantity("pv_storage_size", defaultPVSize), accessDesc)
}

func nfsValues(vals Values) string {
	return fmt.Sprintf(`
nfs:
  enabled: true
  server: %s
  path: %s
  mountPath: %s
  readOnly: %s
`,
		vals.String("nfs_server", defaultNFSServer),
		vals.String("nfs_path", defaultNFSPath),
		vals.String("nfs_mount_path", defaultNFSMountPath),
		yamlBool(vals.Bool("nfs_readonly", false)))
}

func nfsSummary(vals Values) string {
	access := "read-write"
	if vals.Bool("nfs_readonly", false) {
		access = "read-only"
	}
	return fmt.Sprintf("- **NFS**: Shared storage from %s (%s)",
		vals.String("nfs_server", defaultNFSServer), access)
}

func externalSecretsValues(vals Values) string {
	return fmt.Sprintf(`
externalSecrets:
  enabled: true
  secretPath: %s
  backend: vault
  vaultUrl: https://bao.k8s.ucar.edu
`, vals.String("secret_path", defaultSecretPath))
}

func externalSecretsSummary(Values) string {
	return "- **External Secrets**: Vault integration"
}

func autoscalingValues(vals Values) string {
	return fmt.Sprintf(`
autoscaling:
  enabled: true
  minReplicas: %d
  maxReplicas: %d
  targetCPUUtilizationPercentage: %d
`,
		vals.Int("min_replicas", defaultMinReplicas),
		vals.Int("max_replicas", defaultMaxReplicas),
		vals.Int("target_cpu", defaultTargetCPU))
}

func autoscalingSummary(vals Values) string {
	return fmt.Sprintf("- **Autoscaling**: %d-%d replicas at %d%% CPU",
		vals.Int("min_replicas", defaultMinReplicas),
		vals.Int("max_replicas", defaultMaxReplicas),
		vals.Int("target_cpu", defaultTargetCPU))
}
