// Package export writes render meshes to interchange formats: Wavefront
// OBJ, binary STL and 3MF.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chazu/meshsmith/pkg/kernel"
)

// ErrUnknownFormat is returned for unrecognized format names or file
// extensions.
var ErrUnknownFormat = errors.New("unknown export format")

// Format identifies an output file format.
type Format int

const (
	FormatOBJ Format = iota // Wavefront OBJ, text
	FormatSTL               // binary STL
	Format3MF               // 3D Manufacturing Format package
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatSTL:
		return "stl"
	case Format3MF:
		return "3mf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat converts a format name such as "obj" or ".STL" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "obj":
		return FormatOBJ, nil
	case "stl":
		return FormatSTL, nil
	case "3mf":
		return Format3MF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Write encodes meshes to w in the given format. Every mesh becomes its
// own object, named after its part.
func Write(w io.Writer, f Format, meshes []*kernel.Mesh) error {
	switch f {
	case FormatOBJ:
		return WriteOBJ(w, meshes)
	case FormatSTL:
		return WriteSTL(w, meshes)
	case Format3MF:
		return Write3MF(w, meshes)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}
