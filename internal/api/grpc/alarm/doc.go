// Package alarm implements the gRPC transport for the theme alarm service.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype, and the service descriptor is written by hand, so
// no generated code is involved. The package provides the server adapter
// calling into a business-service interface and a client for the CLI.
package alarm
