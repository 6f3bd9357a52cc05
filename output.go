package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/meshsmith/pkg/config"
	"github.com/chazu/meshsmith/pkg/export"
)

// outputFlags are shared by every command that writes a mesh.
type outputFlags struct {
	path   string
	format string
	stats  bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.path, "output", "o", "-", "output file, - for stdout")
	f.StringVarP(&o.format, "format", "f", "", "output format: obj, stl or 3mf (default from extension or config)")
	f.BoolVar(&o.stats, "stats", false, "print mesh statistics to stderr")
}

// resolve picks the output format: the flag wins, then the file extension,
// then the configured default.
func (o *outputFlags) resolve(cfg config.Config) (export.Format, error) {
	if o.format != "" {
		return export.ParseFormat(o.format)
	}
	if o.path != "" && o.path != "-" {
		if f, err := export.FormatFromPath(o.path); err == nil {
			return f, nil
		}
	}
	return cfg.ExportFormat()
}

// write runs fn against the output destination.
func (c *cli) write(path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(c.stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	c.log.Info("wrote mesh", "path", path)
	return nil
}
