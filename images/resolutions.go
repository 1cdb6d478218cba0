// Package images - Named frame sizes accepted wherever dimensions are configured.
package images

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Resolution is a named frame size.
type Resolution struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// MegaPixels returns the pixel count in millions, rounded to two places
// (e.g., 2.07 for 1080p).
func (r Resolution) MegaPixels() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return math.Round(float64(r.Width*r.Height)/1e4) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Width, r.Height, r.MegaPixels())
}

// resolutions holds the common camera and screen sizes, keyed by lower-case
// alias.
var resolutions = map[string]Resolution{
	"360p":  {Name: "nHD", Width: 640, Height: 360},
	"480p":  {Name: "FWVGA", Width: 854, Height: 480},
	"540p":  {Name: "qHD", Width: 960, Height: 540},
	"720p":  {Name: "HD", Width: 1280, Height: 720},
	"1080p": {Name: "Full HD", Width: 1920, Height: 1080},
	"1440p": {Name: "QHD", Width: 2560, Height: 1440},
	"4mp":   {Name: "4MP", Width: 2688, Height: 1520},
	"4k":    {Name: "4K UHD", Width: 3840, Height: 2160},
	"5k":    {Name: "5K", Width: 5120, Height: 2880},
	"8k":    {Name: "8K UHD", Width: 7680, Height: 4320},
}

// ParseResolution resolves a frame size given either as a known alias
// ("1080p", "4k") or as explicit "WIDTHxHEIGHT".
//
// Example:
//
// ```go
//
//	r, _ := ParseResolution("720p")      // HD (1280x720, 0.92MP)
//	r, _ = ParseResolution("640x480")    // 640x480 (640x480, 0.31MP)
//
// ```
func ParseResolution(s string) (Resolution, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if r, ok := resolutions[key]; ok {
		return r, nil
	}
	w, h, ok := strings.Cut(key, "x")
	if !ok {
		return Resolution{}, errors.Errorf("unknown resolution %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, errors.Wrapf(err, "resolution %q width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, errors.Wrapf(err, "resolution %q height", s)
	}
	if width <= 0 || height <= 0 {
		return Resolution{}, errors.Errorf("resolution %q must be positive", s)
	}
	return Resolution{Name: key, Width: width, Height: height}, nil
}
