// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     export
// Description: Markdown export of meeting summaries
// Author:      rdittrich
// License:     MIT
// ============================================================================

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rdittrich/recap/pkg/core/apperr"
	"github.com/rdittrich/recap/pkg/core/logging"
)

const maxTitleLen = 100

// Writer saves meeting summaries as markdown files in a fixed output
// directory.
type Writer struct {
	dir string
	log *logging.Logger
}

// NewWriter creates a Writer that exports into dir, creating it if
// needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeExport, "creating output directory")
	}
	return &Writer{dir: dir, log: logging.New("export")}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Export writes the summary to <timestamp>_<title>.md and returns the
// full path. Existing files are never overwritten; a numeric suffix is
// appended instead.
func (w *Writer) Export(title string, recordedAt time.Time, summary string) (string, error) {
	name := fmt.Sprintf("%s_%s.md", recordedAt.Format("2006-01-02_1504"), SanitizeTitle(title))
	path := w.uniquePath(name)

	if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
		return "", apperr.Wrap(err, apperr.CodeExport, "writing summary file")
	}
	w.log.Info("summary exported", "path", path)
	return path, nil
}

// uniquePath finds a free filename by appending _1, _2, ... before the
// extension.
func (w *Writer) uniquePath(name string) string {
	path := filepath.Join(w.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(w.dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}

// SanitizeTitle turns a meeting name into a safe filename fragment:
// characters that are invalid on common filesystems and control
// characters become underscores, runs of whitespace and underscores
// collapse into one, and the result is capped at 100 characters. An
// empty result falls back to "Untitled".
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	s := b.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")

	if runes := []rune(s); len(runes) > maxTitleLen {
		s = strings.Trim(string(runes[:maxTitleLen]), "_")
	}
	if s == "" {
		return "Untitled"
	}
	return s
}
