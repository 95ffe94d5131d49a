// Package version holds the build version, overridden at link time with
// -ldflags "-X rttrainer/pkg/version.Version=...".
package version

// Version is the release of the trainer.
var Version = "v0.4.0"
