// Package perms provides centralized file and directory permission constants
// used whenever mcpcat writes to disk.
package perms

import "os"

// File permission constants.
const (
	// RegularFile permissions for standard files (configuration, logs, generated docs).
	// Mode 0644: owner read/write, group read, others read.
	RegularFile os.FileMode = 0o644
)

// Directory permission constants.
const (
	// RegularDir permissions for standard directories (generated documentation).
	// Mode 0755: owner read/write/execute, group read/execute, others read/execute.
	RegularDir os.FileMode = 0o755
)
