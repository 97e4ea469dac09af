// Package service exposes the tour engine through a thread-safe API used by
// the HTTP server and the MCP transport. It coordinates sessions, board
// definitions, and history pagination, and emits game events that transports
// can forward to clients.
package service
