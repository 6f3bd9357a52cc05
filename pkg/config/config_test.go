package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/meshsmith/pkg/export"
	"github.com/chazu/meshsmith/pkg/primitive"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, primitive.DefaultParams(), cfg.Defaults())
	assert.Equal(t, 5*time.Second, cfg.Timeout())

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	f, err := cfg.ExportFormat()
	require.NoError(t, err)
	assert.Equal(t, export.FormatOBJ, f)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level = "debug"
kernel = "sdfx"

[engine]
timeout_ms = 250

[sdfx]
cells = 64

[export]
format = "stl"
merge = true

[capsule]
segments = 24
spacing = "linear"

[box]
size = [2.0, 3.0, 4.0]
`))
	require.NoError(t, err)

	assert.Equal(t, KernelSDFX, cfg.Kernel)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout())
	assert.Equal(t, 64, cfg.SDFX.Cells)
	assert.True(t, cfg.Export.Merge)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	// Keys left out keep their defaults.
	def := primitive.DefaultParams()
	assert.Equal(t, 24, cfg.Capsule.Segments)
	assert.Equal(t, primitive.SpacingLinear, cfg.Capsule.Spacing)
	assert.Equal(t, def.Capsule.Rings, cfg.Capsule.Rings)
	assert.Equal(t, def.Capsule.Radius, cfg.Capsule.Radius)
	assert.Equal(t, def.Sphere, cfg.Sphere)
	assert.Equal(t, mgl64.Vec3{2, 3, 4}, cfg.Box.Size)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
[capsule]
segmnets = 12
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"kernel", `kernel = "manifold"`},
		{"log level", `log_level = "loud"`},
		{"timeout", "[engine]\ntimeout_ms = 0"},
		{"cells", "[sdfx]\ncells = -1"},
		{"format", "[export]\nformat = \"ply\""},
		{"capsule", "[capsule]\nsegments = 2"},
		{"sphere", "[sphere]\nrings = 1"},
		{"spacing", "[capsule]\nspacing = \"cubic\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestParseSyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse([]byte("kernel = \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line ")
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "meshsmith.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sphere]\nradius = 2.5\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Sphere.Radius)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Capsule.Spacing = primitive.SpacingLinear
	cfg.Box.Size = mgl64.Vec3{1, 2, 3}

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "linear")

	back, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
