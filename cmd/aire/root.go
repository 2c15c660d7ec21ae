package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/aire"
	"github.com/gogpu/aire/raster"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	border  string
	method  string
	workers int
	jobs    int
	verbose bool
	output  string
	outDir  string
	format  string
	quality int
}

func (g *globals) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.border, "border", "clamp", "border policy: clamp, reflect, wrap or zero")
	fs.StringVar(&g.method, "method", "auto", "convolution method: auto, direct, separable or fft")
	fs.IntVar(&g.workers, "workers", 0, "worker goroutines per operation (0 = GOMAXPROCS)")
	fs.IntVarP(&g.jobs, "jobs", "j", runtime.NumCPU(), "images processed concurrently")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "log every operation")
	fs.StringVarP(&g.output, "output", "o", "", "output file (single input only)")
	fs.StringVar(&g.outDir, "out-dir", "", "directory for outputs")
	fs.StringVar(&g.format, "format", "", "output extension, e.g. png, jpg, tiff, araw (default: input's)")
	fs.IntVar(&g.quality, "quality", 0, "JPEG quality 1-100")
}

// facade builds the Aire described by the flags.
func (g *globals) facade() (*aire.Aire, error) {
	border, err := raster.ParseBorder(g.border)
	if err != nil {
		return nil, err
	}
	method, err := aire.ParseMethod(g.method)
	if err != nil {
		return nil, err
	}
	return aire.New(
		aire.WithBorder(border),
		aire.WithMethod(method),
		aire.WithWorkers(g.workers),
	), nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "aire",
		Short:         "Convolution, blur and tone operations on image files",
		Version:       aire.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if g.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", g.jobs)
			}
			if g.output != "" && g.outDir != "" {
				return fmt.Errorf("--output and --out-dir are mutually exclusive")
			}
			level := slog.LevelWarn
			if g.verbose {
				level = slog.LevelDebug
			}
			aire.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	g.register(root.PersistentFlags())
	root.SetOut(os.Stdout)

	for _, c := range operationCommands() {
		root.AddCommand(c.command(g))
	}
	return root
}
