// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     summarize
// Description: Meeting name extraction from summary markdown
// Author:      rdittrich
// License:     MIT
// ============================================================================

package summarize

import (
	"strings"
	"time"
)

// MeetingName derives the meeting name from a summary: the first top-level
// `# ` heading line wins (never `##` or deeper). When the summary has no
// such heading, the fallback is "Meeting <yyyy-MM-dd HH:mm>" based on the
// recording time.
func MeetingName(summary string, recordedAt time.Time) string {
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "##") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		if name != "" {
			return name
		}
	}
	return "Meeting " + recordedAt.Format("2006-01-02 15:04")
}
