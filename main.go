// Command meshsmith builds capsule, sphere and box meshes and renders scene
// scripts to OBJ, STL or 3MF.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/chazu/meshsmith/pkg/config"
)

// cli holds state shared by all subcommands.
type cli struct {
	configPath string
	logLevel   string
	kernelName string

	cfg config.Config
	log *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// load reads the config file and applies flag overrides.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("kernel") {
		cfg.Kernel = c.kernelName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	lvl, _ := cfg.Level()
	c.log = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(c.log)
	c.log.Debug("loaded config", "path", c.configPath, "kernel", cfg.Kernel)
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "meshsmith",
		Short:         "Build capsule meshes and render scene scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "TOML config file")
	pf.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&c.kernelName, "kernel", config.KernelPoly, "geometry kernel: poly or sdfx")

	root.AddCommand(
		newCapsuleCmd(c),
		newSphereCmd(c),
		newBoxCmd(c),
		newEvalCmd(c),
		newWatchCmd(c),
		newConfigCmd(c),
	)
	return root
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg.Encode(c.stdout)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "meshsmith:", err)
		os.Exit(1)
	}
}
