// Package engine provides the Lisp evaluation engine for scene scripts.
// It wraps zygomys in a sandboxed environment and produces a DesignGraph
// from user source code.
package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshsmith/pkg/graph"
	"github.com/chazu/meshsmith/pkg/primitive"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaults sets the parameters used for keyword arguments a script
// leaves out.
func WithDefaults(d primitive.Defaults) Option {
	return func(e *Engine) { e.defaults = d }
}

// WithTimeout sets the hard limit for a single evaluation. Non-positive
// values keep EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine wraps the zygomys interpreter for scene evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	defaults primitive.Defaults
	timeout  time.Duration
	log      *slog.Logger
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		defaults: primitive.DefaultParams(),
		timeout:  EvalTimeout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Defaults returns the primitive defaults the engine fills in.
func (e *Engine) Defaults() primitive.Defaults {
	return e.defaults
}

// Evaluate takes Lisp source code and produces a new DesignGraph.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		g, evalErrs, err := e.evaluate(source)
		ch <- evalResult{graph: g, errors: evalErrs, err: err}
	}()

	start := time.Now()
	g, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
	switch {
	case err != nil:
		e.log.Warn("evaluation failed", "generation", gen, "err", err)
	case len(evalErrs) > 0:
		e.log.Debug("evaluation produced errors", "generation", gen, "errors", len(evalErrs))
	default:
		e.log.Debug("evaluated scene", "generation", gen, "nodes", g.NodeCount(),
			"roots", len(g.Roots), "elapsed", time.Since(start))
	}
	return g, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return graph.New(), nil, nil
	}

	g := graph.New()

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, g, e.defaults)

	// Forms run one at a time in the same environment so an error can be
	// pinned to the line its form starts on.
	for _, f := range splitForms(preprocessSource(source)) {
		if err := env.LoadString(f.text); err != nil {
			return nil, atLine(parseZygomysError(err), f.line), nil
		}
		if _, err := env.Run(); err != nil {
			return nil, atLine(parseZygomysError(err), f.line), nil
		}
	}

	g.AssignOrphanRoots()
	return g, nil, nil
}

// atLine reports errs against the line their form starts on.
func atLine(errs []EvalError, line int) []EvalError {
	for i := range errs {
		errs[i].Line = line
	}
	return errs
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
