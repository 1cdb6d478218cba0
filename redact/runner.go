package redact

import (
	"context"
	"log/slog"
	"time"

	"github.com/nvr-ai/go-redact/images"
	"github.com/nvr-ai/go-redact/images/kernels"
	"github.com/nvr-ai/go-redact/profiler"
	"github.com/pkg/errors"
)

// Runner applies jobs to frames.
//
// A Runner may be shared by goroutines working on different frames; Pool
// and Profiler are both safe for concurrent use. Either may be nil.
type Runner struct {
	// Pool supplies blur scratch buffers.
	Pool *kernels.Pool
	// Profiler receives one duration per step, keyed by op name.
	Profiler *profiler.Profiler
}

// Apply runs a single step against f. It never fails: a step without the
// geometry its op needs, or with an unknown op, leaves f unchanged.
func (r *Runner) Apply(f images.Frame, s Step) {
	if !s.Op.valid() || (!s.Op.IsBrush() && s.Region == nil) {
		return
	}
	var pool *kernels.Pool
	var prof *profiler.Profiler
	if r != nil {
		pool, prof = r.Pool, r.Profiler
	}
	defer prof.StartOperation(string(s.Op))()

	switch s.Op {
	case OpSolidFill:
		SolidFill(f, *s.Region, s.Color)
	case OpPixelate:
		Pixelate(f, *s.Region, s.BlockSize)
	case OpGaussianBlur:
		gaussianBlur(f, *s.Region, s.Radius, pool)
	case OpBrushSolidFill:
		BrushSolidFill(f, s.Points, s.BrushSize, s.Color)
	case OpBrushPixelate:
		BrushPixelate(f, s.Points, s.BrushSize, s.BlockSize)
	}

	if s.Op.IsBrush() {
		prof.RecordMetric(string(s.Op)+".points", float64(s.Points.Len()))
	} else if s.Region != nil {
		rect := s.Region.Clamp(f.Width, f.Height)
		prof.RecordMetric(string(s.Op)+".pixels", float64(rect.Dx()*rect.Dy()))
	}
}

// Run validates job and applies its steps to f in order.
//
// Cancellation is checked between steps, never inside one; on cancellation
// the steps already applied stay applied.
func (r *Runner) Run(ctx context.Context, f images.Frame, job *Job) error {
	if job == nil {
		return errors.New("nil job")
	}
	if err := job.Validate(); err != nil {
		return err
	}
	start := time.Now()
	for i, s := range job.Steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "job %s: step %d", job.ID, i)
		}
		stepStart := time.Now()
		r.Apply(f, s)
		Logger().Debug("step done",
			slog.String("job", job.ID), slog.Int("step", i),
			slog.String("op", string(s.Op)), slog.Duration("took", time.Since(stepStart)))
	}
	Logger().Info("job done",
		slog.String("job", job.ID), slog.Int("steps", len(job.Steps)),
		slog.Duration("took", time.Since(start)))
	return nil
}
