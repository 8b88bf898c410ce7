package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostics(t *testing.T) {
	t.Run("counts and samples", func(t *testing.T) {
		diag := NewDiagnostics()
		diag.Exclude(ReasonBadDate, "OS 1")
		diag.Exclude(ReasonBadDate, "OS 2")
		diag.Excludef(ReasonBadReference, "CONTAS %d: %q", 7, "X7")

		assert.Equal(t, 2, diag.Count(ReasonBadDate))
		assert.Equal(t, 1, diag.Count(ReasonBadReference))
		assert.Equal(t, 3, diag.Total())
		assert.Equal(t, []string{"OS 1", "OS 2"}, diag.Samples(ReasonBadDate))
		assert.Equal(t, []string{`CONTAS 7: "X7"`}, diag.Samples(ReasonBadReference))
		assert.ElementsMatch(t, []string{ReasonBadDate, ReasonBadReference}, diag.Reasons())
	})

	t.Run("sample retention is capped but counts are exact", func(t *testing.T) {
		diag := NewDiagnostics()
		for i := 0; i < maxSamplesPerReason+15; i++ {
			diag.Exclude(ReasonBadValue, fmt.Sprintf("row %d", i))
		}

		assert.Equal(t, maxSamplesPerReason+15, diag.Count(ReasonBadValue))
		assert.Len(t, diag.Samples(ReasonBadValue), maxSamplesPerReason)
	})

	t.Run("unknown reason", func(t *testing.T) {
		diag := NewDiagnostics()
		assert.Zero(t, diag.Count("nunca visto"))
		assert.Empty(t, diag.Samples("nunca visto"))
	})
}
