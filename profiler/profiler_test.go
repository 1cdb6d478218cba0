package profiler

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDuration(t *testing.T) {
	p := New(Options{})
	p.RecordDuration("blur", 2*time.Millisecond)
	p.RecordDuration("blur", 4*time.Millisecond)
	p.RecordDuration("fill", time.Millisecond)

	ops := p.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "blur", ops[0].Name)
	assert.Equal(t, int64(2), ops[0].Count)
	assert.Equal(t, 3*time.Millisecond, ops[0].Avg)
	assert.Equal(t, 2*time.Millisecond, ops[0].Min)
	assert.Equal(t, 4*time.Millisecond, ops[0].Max)
	assert.Equal(t, "fill", ops[1].Name)
}

func TestSampleWindow(t *testing.T) {
	p := New(Options{MaxSamples: 2})
	p.RecordDuration("op", 10*time.Millisecond)
	p.RecordDuration("op", 2*time.Millisecond)
	p.RecordDuration("op", 4*time.Millisecond)

	ops := p.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, int64(3), ops[0].Count)
	assert.Equal(t, 3*time.Millisecond, ops[0].Avg, "average covers the window only")
	assert.Equal(t, 10*time.Millisecond, ops[0].Max)

	p.RecordMetric("px", 1)
	p.RecordMetric("px", 5)
	p.RecordMetric("px", 9)
	ms := p.Metrics()
	require.Len(t, ms, 1)
	assert.Equal(t, 7.0, ms[0].Avg)
	assert.Equal(t, 1.0, ms[0].Min)
	assert.Equal(t, 9.0, ms[0].Max)
}

func TestStartOperation(t *testing.T) {
	p := New(Options{})
	done := p.StartOperation("step")
	done()
	ops := p.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, int64(1), ops[0].Count)
	assert.GreaterOrEqual(t, ops[0].Min, time.Duration(0))
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	assert.NotPanics(t, func() {
		p.StartOperation("x")()
		p.RecordMetric("y", 1)
		assert.Nil(t, p.Operations())
		assert.NoError(t, p.Report(&bytes.Buffer{}))
	})
}

func TestConcurrentRecording(t *testing.T) {
	p := New(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.RecordDuration("op", time.Microsecond)
				p.RecordMetric("m", float64(j))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1600), p.Operations()[0].Count)
	assert.Equal(t, int64(1600), p.Metrics()[0].Count)
}

func TestReport(t *testing.T) {
	p := New(Options{})
	p.RecordDuration("pixelate", 1500*time.Microsecond)
	p.RecordMetric("pixelate.pixels", 400)

	var buf bytes.Buffer
	require.NoError(t, p.Report(&buf))
	out := buf.String()
	assert.Contains(t, out, "OPERATION TIMINGS")
	assert.Contains(t, out, "pixelate: avg=1.5ms")
	assert.Contains(t, out, "pixelate.pixels: avg=400.00")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReportWriteError(t *testing.T) {
	p := New(Options{})
	p.RecordDuration("blur", time.Millisecond)
	p.RecordMetric("blur.pixels", 16)

	err := p.Report(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write report")
	assert.EqualError(t, errors.Cause(err), "disk full")
}
