package main

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/chazu/meshsmith/pkg/config"
	"github.com/chazu/meshsmith/pkg/export"
	"github.com/chazu/meshsmith/pkg/geom"
	"github.com/chazu/meshsmith/pkg/graph"
	"github.com/chazu/meshsmith/pkg/kernel"
	"github.com/chazu/meshsmith/pkg/primitive"
	"github.com/chazu/meshsmith/pkg/tessellate"
)

func newCapsuleCmd(c *cli) *cobra.Command {
	var (
		out      outputFlags
		segments int
		rings    int
		radius   float64
		height   float64
		spacing  string
	)
	cmd := &cobra.Command{
		Use:   "capsule",
		Short: "Build a single capsule mesh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.cfg.Capsule
			f := cmd.Flags()
			if f.Changed("segments") {
				p.Segments = segments
			}
			if f.Changed("rings") {
				p.Rings = rings
			}
			if f.Changed("radius") {
				p.Radius = radius
			}
			if f.Changed("height") {
				p.Height = height
			}
			if f.Changed("spacing") {
				s, err := primitive.ParseSpacing(spacing)
				if err != nil {
					return err
				}
				p.Spacing = s
			}
			if err := p.Validate(); err != nil {
				return err
			}
			if p.Height < primitive.MinCapsuleHeight {
				c.log.Warn("capsule height clamped", "height", p.Height, "min", primitive.MinCapsuleHeight)
			}
			return c.emitPrimitive("capsule", graph.CapsuleData{Params: p}, primitive.Capsule(p), out)
		},
	}
	f := cmd.Flags()
	f.IntVar(&segments, "segments", 8, "vertices per ring")
	f.IntVar(&rings, "rings", 2, "rings per hemisphere")
	f.Float64Var(&radius, "radius", 1, "cap radius")
	f.Float64Var(&height, "height", 1, "distance between the cap centers")
	f.StringVar(&spacing, "spacing", "sine", "ring spacing: sine or linear")
	out.register(cmd)
	return cmd
}

func newSphereCmd(c *cli) *cobra.Command {
	var (
		out      outputFlags
		segments int
		rings    int
		radius   float64
	)
	cmd := &cobra.Command{
		Use:   "sphere",
		Short: "Build a single UV sphere mesh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.cfg.Sphere
			f := cmd.Flags()
			if f.Changed("segments") {
				p.Segments = segments
			}
			if f.Changed("rings") {
				p.Rings = rings
			}
			if f.Changed("radius") {
				p.Radius = radius
			}
			if err := p.Validate(); err != nil {
				return err
			}
			return c.emitPrimitive("sphere", graph.SphereData{Params: p}, primitive.Sphere(p), out)
		},
	}
	f := cmd.Flags()
	f.IntVar(&segments, "segments", 8, "vertices per ring")
	f.IntVar(&rings, "rings", 5, "latitude bands from pole to pole")
	f.Float64Var(&radius, "radius", 1, "sphere radius")
	out.register(cmd)
	return cmd
}

func newBoxCmd(c *cli) *cobra.Command {
	var (
		out  outputFlags
		size []float64
	)
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Build a single box mesh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.cfg.Box
			if cmd.Flags().Changed("size") {
				if len(size) != 3 {
					return fmt.Errorf("--size takes 3 values, got %d", len(size))
				}
				p.Size = mgl64.Vec3{size[0], size[1], size[2]}
			}
			if err := p.Validate(); err != nil {
				return err
			}
			return c.emitPrimitive("box", graph.BoxData{Params: p}, primitive.Box(p), out)
		},
	}
	cmd.Flags().Float64SliceVar(&size, "size", []float64{1, 1, 1}, "half-extents x,y,z")
	out.register(cmd)
	return cmd
}

// emitPrimitive writes one primitive. With the poly kernel and OBJ output
// the polygon mesh is written as is, quads included; every other
// combination goes through the kernel.
func (c *cli) emitPrimitive(name string, data graph.NodeData, pm *geom.PolyMesh, out outputFlags) error {
	format, err := out.resolve(c.cfg)
	if err != nil {
		return err
	}
	if out.stats {
		writePolyStats(c.stderr, name, pm)
	}

	if c.cfg.Kernel == config.KernelPoly && format == export.FormatOBJ {
		return c.write(out.path, func(w io.Writer) error {
			return export.WritePolyOBJ(w, name, pm)
		})
	}

	k, err := kernelFor(c.cfg)
	if err != nil {
		return err
	}
	s, err := tessellate.Solid(k, data)
	if err != nil {
		return err
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return fmt.Errorf("tessellate %s: %w", name, err)
	}
	m.PartName = name
	c.log.Debug("built primitive", "kind", name, "kernel", c.cfg.Kernel,
		"vertices", m.VertexCount(), "triangles", m.TriangleCount())

	return c.write(out.path, func(w io.Writer) error {
		return export.Write(w, format, []*kernel.Mesh{m})
	})
}
