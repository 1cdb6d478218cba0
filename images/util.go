package images

import (
	"crypto/md5"
	"fmt"
)

// Checksum generates a deterministic checksum of the frame's pixels, used to
// confirm whether a job changed a frame.
//
// Returns:
// - A hex-encoded MD5 checksum string, or "empty" for a frame without pixels.
//
// Example:
//
// ```go
//
//	before := frame.Checksum()
//	redact.Pixelate(frame, region, 8)
//	changed := frame.Checksum() != before
//
// ```
func (f Frame) Checksum() string {
	if len(f.Pix) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%x", md5.Sum(f.Pix))
}
