// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the dashboard frontend embedded in the Go binary,
// served directly via HTTP from /.
//
//go:embed frontend
var Files embed.FS
