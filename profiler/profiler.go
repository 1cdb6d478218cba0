// Package profiler collects timing and value statistics for redaction jobs.
package profiler

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Profiler tracks per-operation durations and custom metric values.
//
// It keeps a sliding window of the most recent samples per name and is
// safe for concurrent use. A nil *Profiler discards everything, so callers
// can time unconditionally.
type Profiler struct {
	mu         sync.RWMutex
	startTime  time.Time
	maxSamples int

	metrics    map[string]*MetricTracker
	operations map[string]*TimeTracker
}

// MetricTracker tracks statistics for a custom metric.
type MetricTracker struct {
	values []float64
	sum    float64
	min    float64
	max    float64
	count  int64
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Options configures the profiler.
type Options struct {
	// MaxSamples specifies maximum number of samples kept per name (default: 600)
	MaxSamples int
}

// OperationStats is a snapshot of one operation's timings.
type OperationStats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Avg   time.Duration `json:"avg"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// MetricStats is a snapshot of one metric's values.
type MetricStats struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// New creates a profiler with the specified options.
func New(opts Options) *Profiler {
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}
	return &Profiler{
		startTime:  time.Now(),
		maxSamples: opts.MaxSamples,
		metrics:    make(map[string]*MetricTracker),
		operations: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (p *Profiler) StartOperation(name string) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		p.RecordDuration(name, time.Since(start))
	}
}

// RecordDuration records the completion time of an operation.
func (p *Profiler) RecordDuration(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.operations[name]
	if !ok {
		t = &TimeTracker{minTime: d, maxTime: d}
		p.operations[name] = t
	}

	t.durations = append(t.durations, d)
	t.totalTime += d
	if len(t.durations) > p.maxSamples {
		// Remove oldest sample
		t.totalTime -= t.durations[0]
		t.durations = t.durations[1:]
	}
	t.count++
	t.minTime = min(t.minTime, d)
	t.maxTime = max(t.maxTime, d)
}

// RecordMetric records a custom metric value.
func (p *Profiler) RecordMetric(name string, value float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.metrics[name]
	if !ok {
		m = &MetricTracker{min: value, max: value}
		p.metrics[name] = m
	}

	m.values = append(m.values, value)
	m.sum += value
	if len(m.values) > p.maxSamples {
		m.sum -= m.values[0]
		m.values = m.values[1:]
	}
	m.count++
	m.min = min(m.min, value)
	m.max = max(m.max, value)
}

// Operations returns a snapshot of every operation, sorted by name.
// Averages cover the sample window; counts and extremes cover all samples.
func (p *Profiler) Operations() []OperationStats {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]OperationStats, 0, len(p.operations))
	for name, t := range p.operations {
		out = append(out, OperationStats{
			Name:  name,
			Count: t.count,
			Avg:   t.totalTime / time.Duration(len(t.durations)),
			Min:   t.minTime,
			Max:   t.maxTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metrics returns a snapshot of every metric, sorted by name.
func (p *Profiler) Metrics() []MetricStats {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]MetricStats, 0, len(p.metrics))
	for name, m := range p.metrics {
		out = append(out, MetricStats{
			Name:  name,
			Count: m.count,
			Avg:   m.sum / float64(len(m.values)),
			Min:   m.min,
			Max:   m.max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report writes a human-readable summary to w.
func (p *Profiler) Report(w io.Writer) error {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	uptime := time.Since(p.startTime)
	p.mu.RUnlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "PROFILER REPORT - uptime %v\n", uptime.Truncate(time.Millisecond))
	if ops := p.Operations(); len(ops) > 0 {
		buf.WriteString("\nOPERATION TIMINGS:\n")
		for _, o := range ops {
			fmt.Fprintf(&buf, "  %s: avg=%v, min=%v, max=%v, count=%d\n",
				o.Name,
				o.Avg.Truncate(time.Microsecond),
				o.Min.Truncate(time.Microsecond),
				o.Max.Truncate(time.Microsecond),
				o.Count)
		}
	}
	if ms := p.Metrics(); len(ms) > 0 {
		buf.WriteString("\nMETRICS:\n")
		for _, m := range ms {
			fmt.Fprintf(&buf, "  %s: avg=%.2f, min=%.2f, max=%.2f, samples=%d\n",
				m.Name, m.Avg, m.Min, m.Max, m.Count)
		}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errors.Wrap(err, "write report")
	}
	return nil
}
