package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	estimatesTotal      atomic.Uint64
	searchQueriesTotal  atomic.Uint64
	searchStaleTotal    atomic.Uint64
	leadsSubmittedTotal atomic.Uint64
	leadsFailedTotal    atomic.Uint64
	leadsDeliveredTotal atomic.Uint64
	workerFailedTotal   atomic.Uint64

	recommendationsTotal = newCounterVec("product")
	rateLimitedTotal     = newCounterVec("group")

	leadDeliveryDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000})
)

// IncRecommendation counts a quiz recommendation for the given product slug.
func IncRecommendation(slug string) {
	recommendationsTotal.Inc(slug)
}

// IncEstimate counts a computed estimate.
func IncEstimate() {
	estimatesTotal.Add(1)
}

// IncSearchQuery counts an executed search.
func IncSearchQuery() {
	searchQueriesTotal.Add(1)
}

// IncSearchStale counts a live search result dropped because a newer query superseded it.
func IncSearchStale() {
	searchStaleTotal.Add(1)
}

// IncLeadSubmitted increments the accepted leads counter.
func IncLeadSubmitted() {
	leadsSubmittedTotal.Add(1)
}

// IncLeadFailed increments the failed leads counter.
func IncLeadFailed() {
	leadsFailedTotal.Add(1)
}

// IncLeadDelivered increments the delivered leads counter.
func IncLeadDelivered() {
	leadsDeliveredTotal.Add(1)
}

// IncWorkerFailed counts queue messages the worker could not process.
func IncWorkerFailed() {
	workerFailedTotal.Add(1)
}

// IncRateLimited counts a request rejected by the rate limiter.
func IncRateLimited(group string) {
	rateLimitedTotal.Inc(group)
}

// ObserveLeadDeliveryMs records how long forwarding a lead took, in milliseconds.
func ObserveLeadDeliveryMs(value float64) {
	if value < 0 {
		value = 0
	}
	leadDeliveryDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "quiz_recommendations_total", "Quiz recommendations by product", recommendationsTotal)
	writeCounter(&buf, "estimates_total", "Price estimates computed", estimatesTotal.Load())
	writeCounter(&buf, "search_queries_total", "Search queries executed", searchQueriesTotal.Load())
	writeCounter(&buf, "search_stale_total", "Live search results superseded before delivery", searchStaleTotal.Load())
	writeCounter(&buf, "leads_submitted_total", "Leads accepted", leadsSubmittedTotal.Load())
	writeCounter(&buf, "leads_failed_total", "Leads that could not be accepted or delivered", leadsFailedTotal.Load())
	writeCounter(&buf, "leads_delivered_total", "Leads forwarded to the messaging backend", leadsDeliveredTotal.Load())
	writeCounter(&buf, "worker_failed_total", "Queue messages the worker failed to process", workerFailedTotal.Load())
	writeCounterVec(&buf, "rate_limited_total", "Requests rejected by the rate limiter", rateLimitedTotal)
	writeHistogram(&buf, "lead_delivery_duration_ms", "Lead delivery duration in milliseconds", leadDeliveryDuration.Snapshot())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	label  string
	values map[string]uint64
}

func newCounterVec(label string) *counterVec {
	return &counterVec{label: label, values: make(map[string]uint64)}
}

func (v *counterVec) Inc(value string) {
	if value == "" {
		value = "unknown"
	}
	v.mu.Lock()
	v.values[value]++
	v.mu.Unlock()
}

func (v *counterVec) snapshot() ([]string, map[string]uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	keys := make([]string, 0, len(v.values))
	for k, n := range v.values {
		out[k] = n
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket that holds it; counts are made cumulative on render.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := v.snapshot()
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, v.label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
