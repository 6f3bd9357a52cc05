package primitive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidParams is wrapped by every Validate error.
var ErrInvalidParams = errors.New("invalid primitive parameters")

// Spacing selects how latitude rings are distributed over a capsule cap.
type Spacing int

const (
	SpacingSine   Spacing = iota // rings bunch up towards the pole
	SpacingLinear                // rings evenly spaced in height
)

func (s Spacing) String() string {
	switch s {
	case SpacingSine:
		return "sine"
	case SpacingLinear:
		return "linear"
	default:
		return fmt.Sprintf("Spacing(%d)", int(s))
	}
}

// ParseSpacing converts "sine" or "linear" (case-insensitive) to a Spacing.
// The empty string means SpacingSine.
func ParseSpacing(s string) (Spacing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sine":
		return SpacingSine, nil
	case "linear":
		return SpacingLinear, nil
	}
	return 0, fmt.Errorf("%w: unknown spacing %q, expected sine or linear", ErrInvalidParams, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Spacing) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Spacing) UnmarshalText(b []byte) error {
	v, err := ParseSpacing(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CapsuleParams shapes a capsule: a cylinder of Height between the centers
// of two hemispherical caps of Radius.
type CapsuleParams struct {
	Segments int     `toml:"segments" json:"segments"` // vertices per ring
	Rings    int     `toml:"rings" json:"rings"`       // rings per hemisphere
	Radius   float64 `toml:"radius" json:"radius"`
	Height   float64 `toml:"height" json:"height"`
	Spacing  Spacing `toml:"spacing" json:"spacing"`
}

// Validate checks the ranges under which Capsule yields a closed manifold.
// Height is not checked since the builder clamps it.
func (p CapsuleParams) Validate() error {
	if p.Segments < 3 {
		return fmt.Errorf("%w: capsule segments is %d, must be at least 3", ErrInvalidParams, p.Segments)
	}
	if p.Rings < 1 {
		return fmt.Errorf("%w: capsule rings is %d, must be at least 1", ErrInvalidParams, p.Rings)
	}
	if !(p.Radius > 0) {
		return fmt.Errorf("%w: capsule radius is %g, must be positive", ErrInvalidParams, p.Radius)
	}
	if p.Spacing != SpacingSine && p.Spacing != SpacingLinear {
		return fmt.Errorf("%w: capsule spacing %s", ErrInvalidParams, p.Spacing)
	}
	return nil
}

// SphereParams shapes a UV sphere. Rings counts latitude bands from pole to
// pole, so the sphere has Rings-1 vertex rings.
type SphereParams struct {
	Segments int     `toml:"segments" json:"segments"`
	Rings    int     `toml:"rings" json:"rings"`
	Radius   float64 `toml:"radius" json:"radius"`
}

// Validate checks the ranges under which Sphere yields a closed manifold.
func (p SphereParams) Validate() error {
	if p.Segments < 3 {
		return fmt.Errorf("%w: sphere segments is %d, must be at least 3", ErrInvalidParams, p.Segments)
	}
	if p.Rings < 2 {
		return fmt.Errorf("%w: sphere rings is %d, must be at least 2", ErrInvalidParams, p.Rings)
	}
	if !(p.Radius > 0) {
		return fmt.Errorf("%w: sphere radius is %g, must be positive", ErrInvalidParams, p.Radius)
	}
	return nil
}

// BoxParams shapes an axis-aligned box centered on the origin. Size holds
// half-extents: the box spans -Size to +Size.
type BoxParams struct {
	Size mgl64.Vec3 `toml:"size" json:"size"`
}

// Validate checks that every half-extent is positive.
func (p BoxParams) Validate() error {
	for i, axis := range []string{"x", "y", "z"} {
		if !(p.Size[i] > 0) {
			return fmt.Errorf("%w: box size %s is %g, must be positive", ErrInvalidParams, axis, p.Size[i])
		}
	}
	return nil
}

// Defaults groups the default parameters for every primitive.
type Defaults struct {
	Capsule CapsuleParams `toml:"capsule"`
	Sphere  SphereParams  `toml:"sphere"`
	Box     BoxParams     `toml:"box"`
}

// DefaultParams returns the stock parameters for each primitive.
func DefaultParams() Defaults {
	return Defaults{
		Capsule: CapsuleParams{Segments: 8, Rings: 2, Radius: 1, Height: 1, Spacing: SpacingSine},
		Sphere:  SphereParams{Segments: 8, Rings: 5, Radius: 1},
		Box:     BoxParams{Size: mgl64.Vec3{1, 1, 1}},
	}
}
