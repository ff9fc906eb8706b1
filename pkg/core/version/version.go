// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     version
// Description: Central version information
// Author:      rdittrich
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/rdittrich/recap/pkg/core/version.Version=...".
var Version = "0.3.0"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// String returns the full version string.
func String() string {
	return fmt.Sprintf("recap %s (%s)", Version, Commit)
}
