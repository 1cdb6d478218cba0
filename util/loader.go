package util

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RawExt is the extension of headerless RGBA8 frame dumps.
const RawExt = ".rgba"

// RawFile represents a raw frame file.
type RawFile struct {
	// Path is the path to the frame file.
	Path string
	// Data is the raw RGBA bytes of the frame.
	Data []byte
	// Frame is the frame number of the file.
	Frame int
}

// LoadRawFrames reads all frame-N.rgba files from a directory.
//
// Arguments:
// - dir: Directory path containing frame files.
//
// Returns:
// - []RawFile: Files sorted by frame number.
// - error: Error if loading fails or a file name carries no frame number.
func LoadRawFrames(dir string) ([]RawFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read dir %s", dir)
	}

	var frames []RawFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != RawExt {
			continue
		}
		n, err := FrameNumber(entry.Name())
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, entry.Name())
		data, err := ReadRawFrame(path)
		if err != nil {
			return nil, err
		}
		frames = append(frames, RawFile{Path: path, Data: data, Frame: n})
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Frame < frames[j].Frame
	})

	return frames, nil
}

// FrameNumber parses N out of a "frame-N.ext" file name.
func FrameNumber(name string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	n, err := strconv.Atoi(strings.TrimPrefix(base, "frame-"))
	if err != nil {
		return 0, errors.Wrapf(err, "frame number of %s", name)
	}
	return n, nil
}

// ReadRawFrame reads one raw frame file.
func ReadRawFrame(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read frame %s", path)
	}
	return data, nil
}

// WriteRawFrame writes one raw frame file, creating parent directories.
func WriteRawFrame(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create dir for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write frame %s", path)
	}
	return nil
}
