package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "x", "help", h.Snapshot())
	out := buf.String()

	for _, want := range []string{
		`x_bucket{le="10"} 1`,
		`x_bucket{le="100"} 2`,
		`x_bucket{le="+Inf"} 3`,
		`x_sum 555`,
		`x_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderIncludesLabeledCounters(t *testing.T) {
	IncRecommendation("website")
	IncRecommendation("website")
	IncRateLimited("")

	out := Render()
	if !strings.Contains(out, `quiz_recommendations_total{product="website"}`) {
		t.Fatalf("expected labeled recommendation counter:\n%s", out)
	}
	if !strings.Contains(out, `rate_limited_total{group="unknown"}`) {
		t.Fatalf("expected unknown group label:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE lead_delivery_duration_ms histogram") {
		t.Fatalf("expected delivery histogram:\n%s", out)
	}
}
