// Package site loads the portal's static configuration: the hosted
// application listing and the uptime monitor roster. Both are plain YAML
// files read per request so edits show up without a restart.
package site
