// Package client talks to a running release-site over its gRPC API.
package client
