package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/chazu/meshsmith/pkg/graph"
	"github.com/chazu/meshsmith/pkg/primitive"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: my-pill -> my_pill
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters; a minus
		// operator is always preceded by '(' or whitespace.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPrimitive wraps a primitive payload returned by capsule, sphere or
// box and consumed by defpart or place.
type sexpPrimitive struct {
	data graph.NodeData
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	switch d := p.data.(type) {
	case graph.CapsuleData:
		return fmt.Sprintf("(capsule :radius %g :height %g)", d.Params.Radius, d.Params.Height)
	case graph.SphereData:
		return fmt.Sprintf("(sphere :radius %g)", d.Params.Radius)
	case graph.BoxData:
		s := d.Params.Size
		return fmt.Sprintf("(box %gx%gx%g)", s[0], s[1], s[2])
	}
	return "(primitive)"
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an mgl64.Vec3.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// only returns an error naming the first keyword not in allowed.
func (a kwArgs) only(allowed ...string) error {
	unknown := lo.Filter(lo.Keys(a.kw), func(k string, _ int) bool {
		return !lo.Contains(allowed, k)
	})
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown keyword :%s (accepted: :%s)", unknown[0], strings.Join(allowed, " :"))
}

// float sets *dst from keyword key when present.
func (a kwArgs) float(key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// int sets *dst from keyword key when present.
func (a kwArgs) int(key string, dst *int) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted when they hold a whole
// number.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_sine) and plain strings ("sine").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder holds the per-evaluation state shared by the builtins.
type builder struct {
	g        *graph.DesignGraph
	defaults primitive.Defaults
	anon     int // counter for nodes without a user-assigned name
}

// nextPath returns a node path unique within this evaluation. IDs therefore
// depend only on the source, never on earlier evaluations.
func (b *builder) nextPath(prefix string) string {
	b.anon++
	return fmt.Sprintf("%s/_anon_%d", prefix, b.anon)
}

// addPart stores a primitive payload as a part node.
func (b *builder) addPart(name string, data graph.NodeData) *sexpNodeRef {
	path := b.nextPath("part")
	if name != "" {
		path = "defpart/" + name
	}
	id := graph.NewNodeID(path)
	b.g.AddNode(&graph.Node{
		ID:   id,
		Kind: graph.NodePrimitive,
		Name: name,
		Data: data,
	})
	return &sexpNodeRef{id: id, name: name}
}

// toChild resolves a node reference or an inline primitive to a node ID.
// Inline primitives become anonymous parts.
func (b *builder) toChild(s zygo.Sexp) (graph.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *sexpPrimitive:
		return b.addPart("", v.data).id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected node reference or primitive, got %T (%s)", s, s.SexpString(nil))
}

// registerBuiltins installs all scene DSL builtins into a zygomys
// environment. The builtins populate g during evaluation; keyword arguments
// left out take their value from defaults. Roots are not assigned here: the
// caller promotes every unreferenced node once the script has run, so an
// assembly nested in another assembly renders once.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph, defaults primitive.Defaults) {
	b := &builder{g: g, defaults: defaults}

	// -----------------------------------------------------------------------
	// (capsule :segments 8 :rings 2 :radius 1 :height 1 :spacing :sine)
	// -----------------------------------------------------------------------
	env.AddFunction("capsule", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("segments", "rings", "radius", "height", "spacing"); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		p := b.defaults.Capsule

		if err := pa.int("segments", &p.Segments); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		if err := pa.int("rings", &p.Rings); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		if err := pa.float("radius", &p.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		if err := pa.float("height", &p.Height); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		if v, ok := pa.kw["spacing"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("capsule: spacing: %w", err)
			}
			if p.Spacing, err = primitive.ParseSpacing(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
			}
		}

		return &sexpPrimitive{data: graph.CapsuleData{Params: p}}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :segments 8 :rings 5 :radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("segments", "rings", "radius"); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		p := b.defaults.Sphere

		if err := pa.int("segments", &p.Segments); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if err := pa.int("rings", &p.Rings); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if err := pa.float("radius", &p.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		return &sexpPrimitive{data: graph.SphereData{Params: p}}, nil
	})

	// -----------------------------------------------------------------------
	// (box :size (vec3 1 2 3)) or (box :x 1 :y 2 :z 3)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("size", "x", "y", "z"); err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		p := b.defaults.Box

		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			p.Size = vec
		}
		for i, axis := range []string{"x", "y", "z"} {
			if err := pa.float(axis, &p.Size[i]); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
		}

		return &sexpPrimitive{data: graph.BoxData{Params: p}}, nil
	})

	// -----------------------------------------------------------------------
	// (defpart "name" (capsule ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		if partName == "" {
			return zygo.SexpNull, fmt.Errorf("defpart: name must not be empty")
		}
		if g.Lookup(partName) != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %q is already defined", partName)
		}

		body, ok := args[1].(*sexpPrimitive)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defpart: expected capsule, sphere or box expression, got %T", args[1])
		}

		return b.addPart(partName, body.data), nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		n := g.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}

		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var vec mgl64.Vec3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			vec[i] = f
		}

		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "pill") :at (vec3 0 0 2) :rotate (vec3 90 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("at", "rotate"); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a part reference as first argument")
		}

		childID, err := b.toChild(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: part: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		prefix := "place"
		if child := g.Get(childID); child != nil && child.Name != "" {
			prefix = "place/" + child.Name
		}
		id := graph.NewNodeID(b.nextPath(prefix))

		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{childID},
			Data:     td,
		})

		return &sexpNodeRef{id: id}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "name" (place ...) (part "x") (capsule ...) ...)
	// Children may also be passed as a single list.
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}

		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		if g.Lookup(asmName) != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %q is already defined", asmName)
		}

		items := args[1:]
		if len(items) == 1 {
			if list, err := sexpListToSlice(items[0]); err == nil {
				items = list
			}
		}

		var children []graph.NodeID
		for i, item := range items {
			id, err := b.toChild(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: %w", i+1, err)
			}
			children = append(children, id)
		}

		id := graph.NewNodeID("assembly/" + asmName)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     asmName,
			Children: children,
			Data:     graph.GroupData{},
		})

		return &sexpNodeRef{id: id, name: asmName}, nil
	})
}
