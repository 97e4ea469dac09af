// Package config loads and caches board definitions from JSON files.
package config
