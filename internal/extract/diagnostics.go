package extract

import "fmt"

// maxSamplesPerReason caps how many excluded rows are kept verbatim for
// inspection; counts are always exact.
const maxSamplesPerReason = 20

// Diagnostics collects rows silently excluded during extraction and
// consolidation, so exclusion is observable instead of swallowed. It is
// not safe for concurrent use; each run owns its own collector.
type Diagnostics struct {
	counts  map[string]int
	samples map[string][]string
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		counts:  make(map[string]int),
		samples: make(map[string][]string),
	}
}

// Exclude records one excluded row under a reason key.
func (d *Diagnostics) Exclude(reason, detail string) {
	d.counts[reason]++
	if len(d.samples[reason]) < maxSamplesPerReason {
		d.samples[reason] = append(d.samples[reason], detail)
	}
}

// Excludef records one excluded row with a formatted detail.
func (d *Diagnostics) Excludef(reason, format string, args ...interface{}) {
	d.Exclude(reason, fmt.Sprintf(format, args...))
}

// Count returns the number of exclusions under a reason.
func (d *Diagnostics) Count(reason string) int {
	return d.counts[reason]
}

// Total returns the number of exclusions across all reasons.
func (d *Diagnostics) Total() int {
	total := 0
	for _, n := range d.counts {
		total += n
	}
	return total
}

// Samples returns the retained details for a reason.
func (d *Diagnostics) Samples(reason string) []string {
	return d.samples[reason]
}

// Reasons returns every reason that recorded at least one exclusion.
func (d *Diagnostics) Reasons() []string {
	reasons := make([]string, 0, len(d.counts))
	for r := range d.counts {
		reasons = append(reasons, r)
	}
	return reasons
}
