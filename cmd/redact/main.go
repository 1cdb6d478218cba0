// Command redact applies a redaction job to raw RGBA8 frames.
//
// Usage:
//
//	redact -job job.yaml -width 1920 -height 1080 -in frame.rgba -out redacted.rgba
//	redact -job job.yaml -size 1080p -in frames/ -out redacted/ -profile
//
// When -in is a directory every frame-N.rgba file in it is processed and
// written under -out with the same name.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nvr-ai/go-redact/images"
	"github.com/nvr-ai/go-redact/images/kernels"
	"github.com/nvr-ai/go-redact/profiler"
	"github.com/nvr-ai/go-redact/redact"
	"github.com/nvr-ai/go-redact/util"
	"github.com/pkg/errors"
)

// Config holds the command line configuration.
type Config struct {
	JobPath string
	In      string
	Out     string
	Width   int
	Height  int
	Profile bool
	Verbose bool
	Timeout time.Duration
}

func main() {
	var cfg Config
	flag.StringVar(&cfg.JobPath, "job", "", "Path to the job file (YAML or JSON)")
	flag.StringVar(&cfg.In, "in", "", "Raw RGBA frame file, or directory of frame-N.rgba files")
	flag.StringVar(&cfg.Out, "out", "", "Output file, or output directory when -in is a directory")
	flag.IntVar(&cfg.Width, "width", 0, "Frame width in pixels")
	flag.IntVar(&cfg.Height, "height", 0, "Frame height in pixels")
	size := flag.String("size", "", "Frame size as an alias (720p, 1080p, 4k) or WIDTHxHEIGHT; overrides -width/-height")
	flag.BoolVar(&cfg.Profile, "profile", false, "Print per-operation timings to stderr")
	flag.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Minute, "Overall processing timeout")
	flag.Parse()

	if cfg.JobPath == "" || cfg.In == "" || cfg.Out == "" {
		log.Fatal("-job, -in and -out are required")
	}
	if *size != "" {
		res, err := images.ParseResolution(*size)
		if err != nil {
			log.Fatalf("Invalid -size: %v", err)
		}
		cfg.Width, cfg.Height = res.Width, res.Height
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		log.Fatal("-width and -height must be positive")
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	redact.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := run(ctx, cfg, os.Stderr); err != nil {
		log.Fatalf("redact failed: %v", err)
	}
}

// run loads the job and processes every input frame.
func run(ctx context.Context, cfg Config, report io.Writer) error {
	job, err := redact.LoadJob(cfg.JobPath)
	if err != nil {
		return err
	}

	var prof *profiler.Profiler
	if cfg.Profile {
		prof = profiler.New(profiler.Options{})
	}
	runner := &redact.Runner{Pool: &kernels.Pool{}, Profiler: prof}

	info, err := os.Stat(cfg.In)
	if err != nil {
		return errors.Wrap(err, "stat input")
	}

	if info.IsDir() {
		frames, err := util.LoadRawFrames(cfg.In)
		if err != nil {
			return err
		}
		for _, rf := range frames {
			out := filepath.Join(cfg.Out, filepath.Base(rf.Path))
			if err := process(ctx, runner, job, cfg, rf.Data, out); err != nil {
				return errors.Wrapf(err, "frame %d", rf.Frame)
			}
		}
		redact.Logger().Info("frames done", slog.Int("count", len(frames)), slog.String("out", cfg.Out))
	} else {
		data, err := util.ReadRawFrame(cfg.In)
		if err != nil {
			return err
		}
		if err := process(ctx, runner, job, cfg, data, cfg.Out); err != nil {
			return err
		}
	}

	if cfg.Profile {
		return prof.Report(report)
	}
	return nil
}

// process redacts one frame in place and writes it to out.
func process(ctx context.Context, runner *redact.Runner, job *redact.Job, cfg Config, data []byte, out string) error {
	f := images.Frame{Pix: data, Width: cfg.Width, Height: cfg.Height}
	if err := f.Validate(); err != nil {
		return err
	}
	defer runner.Profiler.StartOperation("frame")()
	before := f.Checksum()
	if err := runner.Run(ctx, f, job); err != nil {
		return err
	}
	redact.Logger().Debug("frame redacted",
		slog.String("out", out), slog.Bool("changed", f.Checksum() != before))
	return util.WriteRawFrame(out, f.Pix)
}
