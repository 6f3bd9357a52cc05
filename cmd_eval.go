package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazu/meshsmith/pkg/config"
	"github.com/chazu/meshsmith/pkg/export"
)

const watchDebounce = 150 * time.Millisecond

func newEvalCmd(c *cli) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "eval <scene.lisp>",
		Short: "Render a scene script to a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(c.sceneConfig(cmd), c.log)
			if err != nil {
				return err
			}
			return c.render(app, args[0], out)
		},
	}
	out.register(cmd)
	registerMerge(cmd)
	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "watch <scene.lisp>",
		Short: "Re-render a scene script every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out.path == "" || out.path == "-" {
				return errors.New("watch needs --output")
			}
			app, err := NewApp(c.sceneConfig(cmd), c.log)
			if err != nil {
				return err
			}
			path := args[0]

			fw, err := newFileWatcher(path)
			if err != nil {
				return err
			}
			rerender := func() {
				if err := c.render(app, path, out); err != nil {
					c.log.Error("render failed", "path", path, "err", err)
				}
			}
			rerender()

			c.log.Info("watching", "path", path, "output", out.path)
			return fw.run(cmd.Context(), watchDebounce, rerender)
		},
	}
	out.register(cmd)
	registerMerge(cmd)
	return cmd
}

func registerMerge(cmd *cobra.Command) {
	cmd.Flags().Bool("merge", false, "union all parts into one mesh (default from config)")
}

// sceneConfig applies the --merge flag over the loaded config.
func (c *cli) sceneConfig(cmd *cobra.Command) config.Config {
	cfg := c.cfg
	if f := cmd.Flags().Lookup("merge"); f != nil && f.Changed {
		cfg.Export.Merge, _ = cmd.Flags().GetBool("merge")
	}
	return cfg
}

// render evaluates a scene file and writes its parts. Script errors are
// printed to stderr with their position.
func (c *cli) render(app *App, path string, out outputFlags) error {
	format, err := out.resolve(c.cfg)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}

	res := app.Evaluate(string(src))
	if !res.OK() {
		for _, e := range res.Errors {
			if e.Line > 0 {
				fmt.Fprintf(c.stderr, "%s:%d:%d: %s\n", path, e.Line, e.Col, e.Message)
			} else {
				fmt.Fprintf(c.stderr, "%s: %s\n", path, e.Message)
			}
		}
		return fmt.Errorf("%s: %d error(s)", path, len(res.Errors))
	}
	if len(res.Parts) == 0 {
		c.log.Warn("scene has no parts", "path", path)
	}
	if out.stats {
		writeMeshStats(c.stderr, res.Parts)
	}

	return c.write(out.path, func(w io.Writer) error {
		return export.Write(w, format, res.Parts)
	})
}
