package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/grimpo6/helloasso-certificates/internal/collector"
	"github.com/grimpo6/helloasso-certificates/internal/extractor"
	"github.com/grimpo6/helloasso-certificates/internal/helloasso"
)

// Summary contains the outcome of a run
type Summary struct {
	Form      helloasso.Form
	OutputDir string
	Collected *collector.Result
	Extracted *extractor.Result
	DryRun    bool
}

// WriteSummary writes the run outcome as human-readable text
func WriteSummary(w io.Writer, s *Summary) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Form: %s (%s)\n", s.Form.Title, s.Form.Slug)

	if s.Collected != nil {
		fmt.Fprintf(w, "Orders: %d kept", len(s.Collected.IDs))
		if s.Collected.Skipped > 0 {
			fmt.Fprintf(w, ", %d before the minimum date", s.Collected.Skipped)
		}
		fmt.Fprintf(w, " (%d pages)\n", s.Collected.Pages)
	}

	if s.Extracted != nil {
		fmt.Fprintf(w, "Persons: %d\n", s.Extracted.Persons)
		fmt.Fprintf(w, "Certificates: %d\n", s.Extracted.Certificates)
		fmt.Fprintf(w, "Waivers: %d\n", s.Extracted.Waivers)
	}

	if s.DryRun {
		fmt.Fprintf(w, "\nDry run: nothing was written to %s\n", s.OutputDir)
		return nil
	}

	fmt.Fprintf(w, "\nFiles downloaded! (%s)\n", s.OutputDir)
	return nil
}

// WriteMetrics writes a metrics snapshot, counters then timings, sorted by name
func WriteMetrics(w io.Writer, snapshot map[string]interface{}) error {
	counters, _ := snapshot["counters"].(map[string]int64)
	timings, _ := snapshot["timings"].(map[string]map[string]interface{})

	fmt.Fprintln(w, "\nMetrics:")

	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, counters[name])
	}

	names = names[:0]
	for name := range timings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := timings[name]
		fmt.Fprintf(w, "  %s: count=%v avg=%v max=%v\n", name, stats["count"], stats["average"], stats["max"])
	}

	return nil
}
