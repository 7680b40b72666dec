// Package contracts carries the cross-binary constants shared by the
// pipeline tools.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the pipeline tools.
	Version = "0.3.0"

	// DataFormatVersion is the version of the exported table format. Bump it
	// when a CSV header changes so downstream consumers can detect drift.
	DataFormatVersion = "v1"
)

// VersionString returns the version with the Go runtime it was built with.
func VersionString() string {
	return fmt.Sprintf("esgmap %s (%s %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
