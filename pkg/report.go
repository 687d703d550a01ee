package dupecheck

import (
	"fmt"
	"io"
	"strings"
)

// Reporter writes the duplicate report. The line format is a stable
// contract for downstream parsing:
//
//	Dupe: "<path-a>" -> "<path-b>"
//
// one line per consecutive pair within a group. The report writer must be
// distinct from the diagnostic stream.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report emits every pair of every group
func (r *Reporter) Report(groups []DuplicateGroup) error {
	for _, group := range groups {
		for _, pair := range group.Pairs() {
			if err := r.ReportPair(pair[0], pair[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReportPair emits a single duplicate pair line
func (r *Reporter) ReportPair(pathA, pathB string) error {
	_, err := fmt.Fprintf(r.w, "Dupe: \"%s\" -> \"%s\"\n", quotePath(pathA), quotePath(pathB))
	if err != nil {
		return fmt.Errorf("failed to write duplicate report: %w", err)
	}
	return nil
}

// quotePath escapes embedded double quotes so report lines stay parseable
func quotePath(path string) string {
	if !strings.Contains(path, `"`) {
		return path
	}
	return strings.ReplaceAll(path, `"`, `\"`)
}
