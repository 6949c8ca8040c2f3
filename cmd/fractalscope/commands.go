package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fractalscope/internal/analysis"
	"github.com/san-kum/fractalscope/internal/config"
	"github.com/san-kum/fractalscope/internal/fractal"
	"github.com/san-kum/fractalscope/internal/navigate"
	"github.com/san-kum/fractalscope/internal/storage"
	"github.com/san-kum/fractalscope/internal/tour"
	"github.com/san-kum/fractalscope/internal/tui"
	"github.com/san-kum/fractalscope/internal/viewport"
	"github.com/spf13/cobra"
)

// framing holds the flags shared by the headless commands.
type framing struct {
	preset   string
	cRe, cIm float64
	centerRe float64
	centerIm float64
	scale    float64
}

func (f *framing) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "julia preset letter (A..O)")
	cmd.Flags().Float64Var(&f.cRe, "c-re", 0, "julia constant, real part")
	cmd.Flags().Float64Var(&f.cIm, "c-im", 0, "julia constant, imaginary part")
	cmd.Flags().Float64Var(&f.centerRe, "center-re", 0, "view centre, real part (default: home)")
	cmd.Flags().Float64Var(&f.centerIm, "center-im", 0, "view centre, imaginary part (default: home)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "plane units per pixel (default: home)")
}

// params resolves the family argument and flags into kernel input. Unset
// centre and scale fall back to the family's home framing.
func (f *framing) params(cmd *cobra.Command, args []string, cfg *config.Config) (fractal.Params, complex128, error) {
	name := "mandelbrot"
	if len(args) > 0 {
		name = args[0]
	}

	w, h := cfg.Width, cfg.Height
	iter := cfg.MaxIterations
	var family fractal.Family
	var center complex128
	var scale float64

	switch name {
	case "mandelbrot":
		family = fractal.Mandelbrot{}
		center, scale = viewport.DefaultCenter, viewport.DefaultScale(w, h)
	case "julia":
		c := complex(f.cRe, f.cIm)
		if !cmd.Flags().Changed("c-re") && !cmd.Flags().Changed("c-im") {
			if f.preset == "" {
				f.preset = config.JuliaPresets[0].Name
			}
			i, ok := config.FindPreset(f.preset)
			if !ok {
				return fractal.Params{}, 0, fmt.Errorf("unknown preset %q (available: %v)", f.preset, config.ListPresets())
			}
			p, _ := config.GetPreset(i)
			c = p.C
			if cfg.PresetIterations && !cmd.Flags().Changed("iterations") {
				iter = p.Iterations
			}
		}
		family = fractal.Julia{C: c}
		center, scale = navigate.JuliaHome(w, h)
	default:
		return fractal.Params{}, 0, fmt.Errorf("%w: %q", fractal.ErrUnknownFamily, name)
	}

	if cmd.Flags().Changed("center-re") || cmd.Flags().Changed("center-im") {
		center = complex(f.centerRe, f.centerIm)
	}
	if f.scale > 0 {
		scale = f.scale
	}
	return fractal.Params{
		Bounds:        viewport.NewBounds(w, h, center, scale),
		Family:        family,
		MaxIterations: iter,
	}, center, nil
}

func snapshot(p fractal.Params, center complex128) fractal.Snapshot {
	b := p.Bounds
	return fractal.Snapshot{
		Family:        p.Family,
		Center:        center,
		Scale:         b.Scale,
		Width:         b.Width,
		Height:        b.Height,
		MaxIterations: p.MaxIterations,
	}
}

func computeGrid(cmd *cobra.Command, cfg *config.Config, p fractal.Params) (*fractal.Grid, error) {
	b, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	defer b.Cleanup()
	return fractal.Compute(cmd.Context(), b, p)
}

func renderCmd() *cobra.Command {
	var f framing
	cmd := &cobra.Command{
		Use:   "render [mandelbrot|julia]",
		Short: "render one frame to the screenshot directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, center, err := f.params(cmd, args, cfg)
			if err != nil {
				return err
			}
			grid, err := computeGrid(cmd, cfg, p)
			if err != nil {
				return err
			}
			pal, err := newPalette(cfg, p.MaxIterations)
			if err != nil {
				return err
			}
			img, err := pal.Apply(grid.Counts, grid.Width, grid.Height)
			if err != nil {
				return err
			}

			path, err := newStore(cfg).SaveFrame(img, storage.Describe(snapshot(p, center)))
			if err != nil {
				return err
			}
			fmt.Printf("saved %s\n", path)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func statsCmd() *cobra.Command {
	var f framing
	var bins int
	cmd := &cobra.Command{
		Use:   "stats [mandelbrot|julia]",
		Short: "plot the escape-count histogram of a frame",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, _, err := f.params(cmd, args, cfg)
			if err != nil {
				return err
			}
			grid, err := computeGrid(cmd, cfg, p)
			if err != nil {
				return err
			}

			s := analysis.Summarize(grid, bins)
			fmt.Printf("%s  %dx%d  max iterations %d\n", p.Family, grid.Width, grid.Height, grid.MaxIterations)
			fmt.Printf("  max observed  %d\n", s.MaxObserved)
			fmt.Printf("  mean escape   %.2f\n", s.MeanEscape)
			fmt.Printf("  interior      %.2f%%\n\n", s.Interior*100)

			if len(s.Histogram) == 0 {
				return nil
			}
			graph := asciigraph.Plot(s.Histogram,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("escaped pixels by iteration count"),
			)
			fmt.Println(graph)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&bins, "bins", 64, "histogram buckets")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the Julia presets and their keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKEY\tC\tITER")
			for i, p := range config.JuliaPresets {
				key := navigate.PresetKey(i)
				if key == "" {
					key = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%.6f %+.6fi\t%d\n", p.Name, key, real(p.C), imag(p.C), p.Iterations)
			}
			return w.Flush()
		},
	}
}

func shotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shots",
		Short: "list saved frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			frames, err := newStore(cfg).List()
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				fmt.Println("no saved frames")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tFAMILY\tTIME\tCENTER\tSCALE\tITER")
			for _, f := range frames {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.8g %+.8gi\t%.3e\t%d\n",
					f.File,
					f.Family,
					f.Timestamp.Format("2006-01-02 15:04:05"),
					f.CenterRe, f.CenterIm,
					f.Scale,
					f.MaxIterations,
				)
			}
			return w.Flush()
		},
	}
}

func tourCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tour [scenario.yaml]",
		Short: "replay a scripted navigation and save its frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc, err := tour.LoadScenario(args[0])
			if err != nil {
				return err
			}
			if sc.MaxIterations > 0 && !cmd.Flags().Changed("iterations") {
				cfg.MaxIterations = sc.MaxIterations
			}
			w, h := sc.Size(cfg.Width, cfg.Height)
			ctrl, err := newController(cfg, w, h, false)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			fmt.Printf("tour %q: %d steps\n", sc.Name, len(sc.Steps))
			saved, err := tour.Run(cmd.Context(), sc, ctrl, newStore(cfg), os.Stdout)
			if err != nil {
				return err
			}
			fmt.Printf("%d frames saved\n", len(saved))
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "fractalscope.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Cleanup()
	pal, err := newPalette(cfg, cfg.MaxIterations)
	if err != nil {
		return err
	}

	factory := func(w, h int) *navigate.Controller {
		opts := navigate.OptionsFromConfig(cfg)
		opts.AsyncPreview = true
		// Keep the preview to a third of the terminal frame.
		opts.PreviewSize = max(min(cfg.PreviewSize, h/3), 1)
		return navigate.New(w, h, opts, b, pal)
	}
	return tui.Run(cmd.Context(), factory, newStore(cfg))
}
