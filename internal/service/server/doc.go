// Package server runs the theme alarm daemon: it loads the settings, opens
// the theme store, starts the alarm service with its notifiers and serves the
// gRPC API until the context is cancelled.
package server
