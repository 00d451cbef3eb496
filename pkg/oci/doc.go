// Package oci pushes generated chart file sets to OCI-compliant registries
// using ORAS. Charts are packed as a single-layer OCI 1.1 artifact with a
// CIRRUS-specific artifact type so registries and consumers can tell them
// apart from runnable container images.
//
// Authentication uses the standard Docker credential store
// (~/.docker/config.json) via the ORAS credentials package.
package oci
