package redact

import (
	"os"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-redact/images"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Op names a redaction transform.
type Op string

// Op constants
const (
	// OpSolidFill fills a region with a color.
	OpSolidFill Op = "solid_fill"
	// OpPixelate block-averages a region.
	OpPixelate Op = "pixelate"
	// OpGaussianBlur blurs a region.
	OpGaussianBlur Op = "gaussian_blur"
	// OpBrushSolidFill fills disc stamps along a stroke.
	OpBrushSolidFill Op = "brush_solid_fill"
	// OpBrushPixelate block-averages the pixels under a stroke.
	OpBrushPixelate Op = "brush_pixelate"
)

// IsBrush reports whether op takes a stroke rather than a region.
func (o Op) IsBrush() bool {
	return o == OpBrushSolidFill || o == OpBrushPixelate
}

func (o Op) valid() bool {
	switch o {
	case OpSolidFill, OpPixelate, OpGaussianBlur, OpBrushSolidFill, OpBrushPixelate:
		return true
	}
	return false
}

// Step is one transform of a job, as written in a job file.
type Step struct {
	// Op selects the transform.
	Op Op `json:"op" yaml:"op"`
	// Region is required by the rectangular transforms.
	Region *images.Region `json:"region,omitempty" yaml:"region,omitempty"`
	// Points is the stroke of the brush transforms.
	Points images.PointList `json:"points,omitempty" yaml:"points,omitempty"`
	// BrushSize is the stamp diameter of the brush transforms.
	BrushSize int `json:"brush_size,omitempty" yaml:"brush_size,omitempty"`
	// BlockSize is the pixelation block side.
	BlockSize int `json:"block_size,omitempty" yaml:"block_size,omitempty"`
	// Radius is the blur radius.
	Radius int `json:"radius,omitempty" yaml:"radius,omitempty"`
	// Color is the fill color.
	Color images.RGB `json:"color,omitempty" yaml:"color,omitempty"`
}

// Validate checks that the step names a known transform and carries the
// geometry that transform needs.
func (s Step) Validate() error {
	if !s.Op.valid() {
		return errors.Errorf("unknown op %q", s.Op)
	}
	if !s.Op.IsBrush() && s.Region == nil {
		return errors.Errorf("%s: region is required", s.Op)
	}
	if s.Region != nil && (s.Region.W < 0 || s.Region.H < 0) {
		return errors.Errorf("%s: negative region size %dx%d", s.Op, s.Region.W, s.Region.H)
	}
	switch {
	case s.BrushSize < 0:
		return errors.Errorf("%s: negative brush_size %d", s.Op, s.BrushSize)
	case s.BlockSize < 0:
		return errors.Errorf("%s: negative block_size %d", s.Op, s.BlockSize)
	case s.Radius < 0:
		return errors.Errorf("%s: negative radius %d", s.Op, s.Radius)
	}
	return nil
}

// Job is an ordered list of transforms applied to one frame.
type Job struct {
	// ID identifies the job in logs. Generated when empty.
	ID string `json:"id" yaml:"id"`
	// Steps run in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

// Validate checks every step.
func (j *Job) Validate() error {
	for i, s := range j.Steps {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "job %s: step %d", j.ID, i)
		}
	}
	return nil
}

// ParseJob decodes a YAML (or JSON) job definition and validates it.
//
// Example:
//
// ```yaml
//
//	id: faces-0042
//	steps:
//	  - op: gaussian_blur
//	    region: {x: 120, y: 80, w: 64, h: 64}
//	    radius: 8
//	  - op: brush_pixelate
//	    points: [10, 10, 20, 10, 30, 12]
//	    brush_size: 12
//	    block_size: 6
//
// ```
func ParseJob(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, errors.Wrap(err, "decode job")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// LoadJob reads and parses a job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read job %s", path)
	}
	job, err := ParseJob(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load job %s", path)
	}
	return job, nil
}
