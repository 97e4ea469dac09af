// Package session manages concurrent tour sessions, each with its own engine
// and board definition, and optionally persists them to disk as JSON files.
package session
