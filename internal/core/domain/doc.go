// Package domain contains the core types for the quarry document
// intelligence pipeline. Types here have no dependencies on adapters
// or external services.
package domain
