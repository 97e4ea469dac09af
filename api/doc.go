// Package api serves the REST interface for the knight's tour game: session
// management, move placement, board configuration, and the websocket upgrade
// endpoint.
package api
