// Package version exposes build metadata of the theme-alarm binaries.
//
// Version, Commit and BuildTime are set through -ldflags "-X" at build time.
// AttachCobraVersionCommand adds the `version` subcommand to a CLI.
package version
