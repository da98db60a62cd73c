// Package cropchain holds module-wide metadata.
package cropchain

// Version is the semantic version of the cropchain module. Bumped on
// release; the CLI and the HTTP health endpoint report it.
const Version = "v0.1.0"
