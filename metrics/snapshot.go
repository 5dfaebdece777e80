package metrics

import (
	"fmt"
	"io"
	"slices"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Format is the exposition format written by WriteText.
var Format = expfmt.NewFormat(expfmt.TypeTextPlain)

// Snapshot returns a deep copy of all metrics.
// Safe for concurrent use and immune to external mutation.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(r.counters)+len(r.gauges))
	for key, ptr := range r.counters {
		out[string(key)] = atomic.LoadInt64(ptr)
	}
	for key, ptr := range r.gauges {
		out[string(key)] = atomic.LoadInt64(ptr)
	}
	return out
}

// Gather returns the metrics as Prometheus metric families sorted by name.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.RLock()
	defer r.mu.RUnlock()

	families := make([]*dto.MetricFamily, 0, len(r.counters)+len(r.gauges))
	for key, ptr := range r.counters {
		families = append(families, family(key, dto.MetricType_COUNTER, &dto.Metric{
			Counter: &dto.Counter{Value: proto.Float64(float64(atomic.LoadInt64(ptr)))},
		}))
	}
	for key, ptr := range r.gauges {
		families = append(families, family(key, dto.MetricType_GAUGE, &dto.Metric{
			Gauge: &dto.Gauge{Value: proto.Float64(float64(atomic.LoadInt64(ptr)))},
		}))
	}
	slices.SortFunc(families, func(a, b *dto.MetricFamily) int {
		switch {
		case a.GetName() < b.GetName():
			return -1
		case a.GetName() > b.GetName():
			return 1
		default:
			return 0
		}
	})
	return families
}

// WriteText writes the metrics in the Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	for _, mf := range r.Gather() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func family(key MetricKey, typ dto.MetricType, metric *dto.Metric) *dto.MetricFamily {
	mf := &dto.MetricFamily{
		Name:   proto.String(string(key)),
		Type:   typ.Enum(),
		Metric: []*dto.Metric{metric},
	}
	if h, ok := help[key]; ok {
		mf.Help = proto.String(h)
	}
	return mf
}
