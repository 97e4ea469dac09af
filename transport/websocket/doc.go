// Package websocket pushes live board state and game events to browser
// clients. Each connection subscribes to a single session; the hub fans out
// updates produced by the HTTP API.
package websocket
