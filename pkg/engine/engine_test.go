package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/meshsmith/pkg/graph"
	"github.com/chazu/meshsmith/pkg/primitive"
)

func TestEvaluateKeywordsAndKebabNames(t *testing.T) {
	g, evalErrs, err := NewEngine().Evaluate(`
(def pill-radius 0.75)
(def body-height (* pill-radius 4))
(defpart "long-pill" (capsule :radius pill-radius :height body-height :spacing :linear))
`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)

	// Kebab-case symbols are rewritten; string names are left alone.
	n := g.Lookup("long-pill")
	require.NotNil(t, n)
	p := n.Data.(graph.CapsuleData).Params
	assert.Equal(t, 0.75, p.Radius)
	assert.Equal(t, 3.0, p.Height)
	assert.Equal(t, primitive.SpacingLinear, p.Spacing)
}

func TestEvaluateFillsMissingKeywordsFromDefaults(t *testing.T) {
	d := primitive.DefaultParams()
	d.Capsule.Segments = 24
	d.Capsule.Radius = 2
	d.Sphere.Rings = 9

	g, evalErrs, err := NewEngine(WithDefaults(d)).Evaluate(`
(defpart "pill" (capsule :height 5))
(defpart "ball" (sphere :segments 6))
`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)

	pill := lookup(t, g, "pill").Data.(graph.CapsuleData).Params
	assert.Equal(t, primitive.CapsuleParams{
		Segments: 24, Rings: d.Capsule.Rings, Radius: 2, Height: 5, Spacing: d.Capsule.Spacing,
	}, pill)

	ball := lookup(t, g, "ball").Data.(graph.SphereData).Params
	assert.Equal(t, 6, ball.Segments)
	assert.Equal(t, 9, ball.Rings)
	assert.Equal(t, d.Sphere.Radius, ball.Radius)
}

func TestEvaluateAssignsOrphanRoots(t *testing.T) {
	g, evalErrs, err := NewEngine().Evaluate(`
(defpart "loose" (sphere))
(defpart "body" (capsule))
(assembly "figure" (place (part "body") :at (vec3 0 0 2)))
`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)

	// "body" is placed, so only the loose part and the assembly are roots.
	require.Len(t, g.Roots, 2)
	assert.Equal(t, lookup(t, g, "loose").ID, g.Roots[0])
	assert.Equal(t, lookup(t, g, "figure").ID, g.Roots[1])
	assert.Empty(t, graph.Validate(g))
}

func TestEvaluateEmptyAndCommentOnlySources(t *testing.T) {
	for _, src := range []string{"", "  \n\t", "; nothing here\n;; (defpart \"x\" (capsule))\n"} {
		g, evalErrs, err := NewEngine().Evaluate(src)
		require.NoError(t, err, "source %q", src)
		require.Empty(t, evalErrs, "source %q", src)
		require.NotNil(t, g)
		assert.Zero(t, g.NodeCount(), "source %q", src)
	}
}

func TestEvaluateErrorReportsLineOfBadCapsule(t *testing.T) {
	source := `; a figure
(defpart "body" (capsule :radius 1))

(defpart "arm"
  (capsule :segments 2.5))
(defpart "head" (sphere))
`
	g, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	assert.Nil(t, g)
	require.Len(t, evalErrs, 1)

	e := evalErrs[0]
	assert.Equal(t, 4, e.Line, "error should point at the form that starts on line 4")
	assert.Contains(t, e.Message, "segments")
	assert.True(t, strings.HasPrefix(e.Error(), "line 4: "), e.Error())
}

func TestEvaluateSyntaxErrorReportsLine(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate("(defpart \"a\" (capsule))\n(defpart \"b\" (sphere")
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)
	assert.Equal(t, 2, evalErrs[0].Line)
	assert.NotEmpty(t, evalErrs[0].Message)
}

func TestEvaluateUnknownSymbolIsEvalError(t *testing.T) {
	g, evalErrs, err := NewEngine().Evaluate(`(defpart "p" (cylinder :radius 1))`)
	require.NoError(t, err)
	assert.Nil(t, g)
	require.NotEmpty(t, evalErrs)
	assert.Equal(t, 1, evalErrs[0].Line)
}

func TestEvaluateTimeout(t *testing.T) {
	eng := NewEngine(WithTimeout(time.Nanosecond))

	start := time.Now()
	g, evalErrs, err := eng.Evaluate(`
(defpart "body" (capsule :segments 32 :rings 8))
(assembly "figure" (place (part "body") :at (vec3 0 0 1)))
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Nil(t, g)
	assert.Nil(t, evalErrs)
	assert.Less(t, time.Since(start), 5*time.Second)

	// The engine stays usable with its regular limit.
	g, evalErrs, err = NewEngine().Evaluate(`(defpart "body" (capsule))`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.Equal(t, 1, g.NodeCount())
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, EvalTimeout, NewEngine(WithTimeout(0)).timeout)
	assert.Equal(t, EvalTimeout, NewEngine(WithTimeout(-time.Second)).timeout)
	assert.Equal(t, time.Second, NewEngine(WithTimeout(time.Second)).timeout)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	eng := NewEngine()
	src := `(assembly "pair" (place (capsule) :at (vec3 -1 0 0)) (place (sphere) :at (vec3 1 0 0)))`

	first, _, err := eng.Evaluate(src)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		g, evalErrs, err := eng.Evaluate(src)
		require.NoError(t, err)
		require.Empty(t, evalErrs)
		assert.Equal(t, first.Order, g.Order, "evaluation %d", i)
	}
}

func TestSplitForms(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		lines []int
		texts []string
	}{
		{"single", `(capsule)`, []int{1}, []string{`(capsule)`}},
		{
			"multi-line form",
			"(defpart \"a\"\n  (capsule))\n(part \"a\")",
			[]int{1, 3},
			[]string{"(defpart \"a\"\n  (capsule))", `(part "a")`},
		},
		{"parens in strings", `(defpart ")(" (box))`, []int{1}, []string{`(defpart ")(" (box))`}},
		{"comments", "// (ignored\n(sphere) // trailing )", []int{2}, []string{"(sphere)"}},
		{"bare atoms", "42 (box)", []int{1, 1}, []string{"42", "(box)"}},
		{"unbalanced tail", "(box)\n(sphere", []int{1, 2}, []string{"(box)", "(sphere"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forms := splitForms(tt.src)
			var lines []int
			var texts []string
			for _, f := range forms {
				lines = append(lines, f.line)
				texts = append(texts, f.text)
			}
			assert.Equal(t, tt.lines, lines)
			assert.Equal(t, tt.texts, texts)
		})
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"capsule: segments: expected an integer", 0, "segments"},
		{"error on line 12: missing paren", 12, "missing paren"},
	}
	for _, tt := range tests {
		errs := parseZygomysError(errString(tt.msg))
		require.Len(t, errs, 1)
		assert.Equal(t, tt.wantLine, errs[0].Line, tt.msg)
		assert.Contains(t, errs[0].Message, tt.wantMsg)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
