package main

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/chazu/meshsmith/pkg/config"
	"github.com/chazu/meshsmith/pkg/engine"
	"github.com/chazu/meshsmith/pkg/graph"
	"github.com/chazu/meshsmith/pkg/kernel"
	"github.com/chazu/meshsmith/pkg/kernel/poly"
	"github.com/chazu/meshsmith/pkg/kernel/sdfx"
	"github.com/chazu/meshsmith/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script-to-mesh pipeline: evaluate, validate, tessellate.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// MeshData is the JSON-serializable mesh format of one part.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	Graph *graph.DesignGraph `json:"-"`
	Parts []*kernel.Mesh     `json:"-"` // ready for export
}

// OK reports whether the evaluation produced no errors.
func (r EvalResult) OK() bool {
	return len(r.Errors) == 0
}

// kernelFor returns the geometry backend named in cfg.
func kernelFor(cfg config.Config) (kernel.Kernel, error) {
	switch cfg.Kernel {
	case config.KernelPoly, "":
		return poly.New(), nil
	case config.KernelSDFX:
		return sdfx.New(cfg.SDFX.Cells), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", cfg.Kernel)
}

// NewApp creates an App from cfg. A nil logger uses slog.Default.
func NewApp(cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	k, err := kernelFor(cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg: cfg,
		engine: engine.NewEngine(
			engine.WithDefaults(cfg.Defaults()),
			engine.WithTimeout(cfg.Timeout()),
			engine.WithLogger(log),
		),
		kernel: k,
		log:    log,
	}, nil
}

// Kernel returns the geometry backend in use.
func (a *App) Kernel() kernel.Kernel {
	return a.kernel
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a design graph.
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		a.log.Debug("script errors", "count", len(evalErrs))
		return result
	}
	result.Graph = g

	// Step 2: Validate structure and parameters.
	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		a.log.Warn("validation", "node", w.NodeID.Short(), "msg", w.Message)
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if !vr.OK() {
		result.Errors = lo.Map(vr.Errors, func(e graph.ValidationError, _ int) EvalErrorData {
			return EvalErrorData{Message: e.Error()}
		})
		return result
	}

	// Step 3: Tessellate the design graph into triangle meshes.
	meshes, err := a.tessellate(g)
	if err != nil {
		a.log.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	result.Parts = meshes

	// Step 4: Convert kernel meshes to MeshData.
	result.Meshes = lo.Map(meshes, func(m *kernel.Mesh, i int) MeshData {
		return MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		}
	})

	a.log.Info("evaluated scene", "nodes", g.NodeCount(), "parts", len(meshes),
		"warnings", len(result.Warnings))
	return result
}

// mergedName is the part name of a merged scene with more than one root.
const mergedName = "scene"

// tessellate produces one mesh per part, or a single unioned mesh when
// export.merge is set.
func (a *App) tessellate(g *graph.DesignGraph) ([]*kernel.Mesh, error) {
	if !a.cfg.Export.Merge {
		return tessellate.Tessellate(g, a.kernel)
	}
	name := mergedName
	if len(g.Roots) == 1 {
		if root := g.Get(g.Roots[0]); root != nil && root.Name != "" {
			name = root.Name
		}
	}
	m, err := tessellate.Merge(g, a.kernel, name)
	if err != nil || m == nil {
		return nil, err
	}
	return []*kernel.Mesh{m}, nil
}
