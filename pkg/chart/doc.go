// Package chart implements the modular Helm chart generator at the heart of
// the CIRRUS portal.
//
// A chart is assembled from a validated application configuration plus a set
// of enabled add-ons drawn from an immutable registry (database cluster, Dask
// cluster, volumes, secrets injection, autoscaling). Each add-on contributes
// manifest fragments and a values.yaml section; the assembler stitches them
// together in fixed registry order so repeated generations with identical
// input produce identical, diff-friendly output.
//
// The emitted manifests embed Helm's own templating syntax. That syntax is
// opaque literal text here: the generator decides which fragments to include
// and which literal values to splice into static portions, and never
// evaluates the double-brace expressions itself.
package chart
