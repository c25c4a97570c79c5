// Package web holds the dashboard's templates and static assets.
package web

import "embed"

// EmbeddedFS serves templates/ and static/ in release mode.
//
//go:embed templates static
var EmbeddedFS embed.FS
