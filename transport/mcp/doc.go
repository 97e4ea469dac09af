// Package mcp exposes the knight's tour game as MCP tools. The client
// proxies every tool call to the REST API so stdio MCP sessions and browser
// sessions share the same state.
package mcp
