// Package scm publishes generated charts to a Git hosting service as a
// pull request. The portal pushes the chart files onto a new branch under
// helm/<app>/ and opens a pull request against the caller's base branch.
//
// The GitHub implementation talks to the REST v3 API directly with a
// personal access token supplied per request; the portal never stores it.
package scm
