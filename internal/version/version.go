// Package version provides the semantic version of the animesense server.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X github.com/hrygo/animesense/internal/version.Version=...".
var Version = "1.0.0"
