package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelResource = "resource"
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelRegion   = "region"
)

// MaxLabelValueLength caps label values to keep profile storage bounded.
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped: every value would become its own series.
var highCardinalityLabels = map[string]bool{
	"customer_id": true,
	"reminder_id": true,
	"plan_id":     true,
	"request_id":  true,
	"trace_id":    true,
	"span_id":     true,
}

// WithProfilingLabels runs fn with pprof labels attached to its goroutine,
// so CPU samples taken inside fn can be filtered by them in Pyroscope.
// Labels work without a running profiler; they are then simply unused.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// WithRegion labels a named code region such as an outbound call.
func WithRegion(ctx context.Context, region string, fn func(context.Context)) {
	WithProfilingLabels(ctx, map[string]string{ProfilingLabelRegion: region}, fn)
}

// sanitizeLabels drops empty and high-cardinality labels, truncates long
// values and returns key/value pairs sorted by key.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		k = strings.TrimSpace(k)
		if k == "" || strings.TrimSpace(v) == "" || highCardinalityLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > MaxLabelValueLength {
			v = v[:MaxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
