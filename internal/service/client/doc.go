// Package client implements the theme-alarm command line actions.
//
// Every action connects to the alarm server, performs one call and prints
// the result in a human-readable form. Run loads settings, dials the server
// and turns gRPC status errors into plain messages.
package client
