package chart

import (
	"embed"
	"fmt"
	"strings"
)

// The all: prefix keeps underscore-prefixed files like _helpers.tpl in the
// embedded tree.
//
//go:embed all:templates
var templateFS embed.FS

// fragmentText returns embedded manifest text by file name. A missing name
// is a programming error in the registry, not a runtime condition.
func fragmentText(name string) string {
	b, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("missing embedded template %s: %v", name, err))
	}
	return string(b)
}

// static builds a Fragment whose text does not depend on field values.
func static(path, name string) Fragment {
	return Fragment{
		Path:   path,
		Render: func(Values) string { return fragmentText(name) },
	}
}

func chartYAML(appName string) string {
	return fmt.Sprintf(`apiVersion: v2
name: %s
description: A modular Helm chart for %s on CIRRUS
type: application
version: 0.1.0
appVersion: "1.0"
`, appName, appName)
}

func helpersTpl() string {
	return fragmentText("_helpers.tpl")
}

func serviceManifest() string {
	return fragmentText("service.yaml")
}

func ingressManifest() string {
	return fragmentText("ingress.yaml")
}

// deploymentManifest builds the main workload manifest. Volume mounts,
// volumes and env-from blocks accumulate one entry per enabled add-on, in
// registry order (persistent volume before NFS), each naming its
// conventionally-named claim so the output is deterministic across runs.
func deploymentManifest(sel Selection) string {
	var volumeMounts, volumes, envFrom []string

	if sel.Enabled(AddonPersistence) {
		mountPath := sel.Values.String("pv_mount_path", defaultPVMountPath)
		volumeMounts = append(volumeMounts, fmt.Sprintf(`        - name: data
          mountPath: %s`, mountPath))
		volumes = append(volumes, `      - name: data
        persistentVolumeClaim:
          claimName: {{ include "chart.fullname" . }}-pvc`)
	}

	if sel.Enabled(AddonNFS) {
		mountPath := sel.Values.String("nfs_mount_path", defaultNFSMountPath)
		readOnlySuffix := ""
		if sel.Values.Bool("nfs_readonly", false) {
			readOnlySuffix = "\n          readOnly: true"
		}
		volumeMounts = append(volumeMounts, fmt.Sprintf(`        - name: nfs
          mountPath: %s%s`, mountPath, readOnlySuffix))
		volumes = append(volumes, `      - name: nfs
        persistentVolumeClaim:
          claimName: {{ include "chart.fullname" . }}-nfs-pvc`)
	}

	if sel.Enabled(AddonExternalSecrets) {
		envFrom = append(envFrom, `        - secretRef:
            name: {{ include "chart.fullname" . }}-external-secret`)
	}

	var b strings.Builder
	b.WriteString(`apiVersion: apps/v1
kind: Deployment
metadata:
  name: {{ include "chart.fullname" . }}
  labels:
    {{- include "chart.labels" . | nindent 4 }}
spec:
  replicas: {{ .Values.replicaCount }}
  selector:
    matchLabels:
      {{- include "chart.selectorLabels" . | nindent 6 }}
  template:
    metadata:
      labels:
        {{- include "chart.selectorLabels" . | nindent 8 }}
    spec:
      containers:
      - name: {{ .Values.webapp.name }}
        image: "{{ .Values.webapp.container.image }}"
        imagePullPolicy: IfNotPresent
        ports:
        - name: http
          containerPort: {{ .Values.webapp.container.port }}
          protocol: TCP`)

	if len(envFrom) > 0 {
		b.WriteString("\n        envFrom:\n")
		b.WriteString(strings.Join(envFrom, "\n"))
	}
	if len(volumeMounts) > 0 {
		b.WriteString("\n        volumeMounts:\n")
		b.WriteString(strings.Join(volumeMounts, "\n"))
	}

	// Requests are fixed below the configurable limits to leave burst
	// headroom; this policy is not user-configurable in the form.
	b.WriteString(`
        resources:
          limits:
            cpu: "{{ .Values.webapp.container.cpu }}"
            memory: {{ .Values.webapp.container.memory }}
          requests:
            cpu: 100m
            memory: 128Mi`)

	if len(volumes) > 0 {
		b.WriteString("\n      volumes:\n")
		b.WriteString(strings.Join(volumes, "\n"))
	}

	b.WriteString("\n")
	return b.String()
}

func cnpgFragments() []Fragment {
	return []Fragment{
		static("templates/cnpg-cluster.yaml", "cnpg-cluster.yaml"),
		static("templates/cnpg-app-user-secret.yaml", "cnpg-app-user-secret.yaml"),
		{
			Path:   "templates/cnpg-superuser-secret.yaml",
			Render: func(Values) string { return fragmentText("cnpg-superuser-secret.yaml") },
			When: func(vals Values) bool {
				return vals.Bool("cnpg_enable_superuser", false)
			},
		},
	}
}

func daskFragments() []Fragment {
	return []Fragment{
		static("templates/dask-scheduler-deployment.yaml", "dask-scheduler-deployment.yaml"),
		static("templates/dask-scheduler-service.yaml", "dask-scheduler-service.yaml"),
		static("templates/dask-workers-deployment.yaml", "dask-workers-deployment.yaml"),
	}
}

func persistenceFragments() []Fragment {
	return []Fragment{
		static("templates/pvc.yaml", "pvc.yaml"),
	}
}

func nfsFragments() []Fragment {
	return []Fragment{
		static("templates/nfs-pv.yaml", "nfs-pv.yaml"),
		static("templates/nfs-pvc.yaml", "nfs-pvc.yaml"),
	}
}

func externalSecretsFragments() []Fragment {
	return []Fragment{
		static("templates/external-secret.yaml", "external-secret.yaml"),
	}
}

func autoscalingFragments() []Fragment {
	return []Fragment{
		static("templates/hpa.yaml", "hpa.yaml"),
	}
}
