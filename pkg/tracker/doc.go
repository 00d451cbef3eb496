// Package tracker files application hosting requests as issue tracker
// tickets. Requests land in the CIRRUS user-request epic on the UCAR Jira
// instance, authenticated with a personal access token.
package tracker
