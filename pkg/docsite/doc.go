// Package docsite embeds documentation pages from the NCAR HPC docs site.
// Pages are fetched over HTTP, reduced to the main article element, and
// stripped of site chrome (edit buttons, header anchors, sidebars) so the
// fragment renders cleanly inside the portal.
package docsite
