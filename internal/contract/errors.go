package contract

import "errors"

// Sentinel errors shared by the CLI, the HTTP API and the MCP server.
var (
	ErrNoData          = errors.New("no scored data available")
	ErrUnknownMonth    = errors.New("unknown month")
	ErrUnknownLocation = errors.New("unknown location")
)
