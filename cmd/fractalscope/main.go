package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/san-kum/fractalscope/internal/gui"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	width      int
	height     int
	iterations int
	backend    string
)

func mainCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fractalscope",
		Short: "interactive Mandelbrot and Julia set explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the GUI when no command is given.
			cmd.SilenceUsage = true
			return runGUI(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&dataDir, "data", "", "screenshot directory (overrides config)")
	flags.IntVar(&width, "width", 0, "frame width in pixels (overrides config)")
	flags.IntVar(&height, "height", 0, "frame height in pixels (overrides config)")
	flags.IntVar(&iterations, "iterations", 0, "iteration cap (overrides config)")
	flags.StringVar(&backend, "backend", "", "compute backend: cpu or serial (overrides config)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "explore in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runGUI(cmd.Context())
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "explore in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, renderCmd(), statsCmd(), presetsCmd(), shotsCmd(), tourCmd(), configCmd())
	return rootCmd
}

func runGUI(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := newController(cfg, cfg.Width, cfg.Height, true)
	if err != nil {
		return err
	}
	return gui.Run(ctx, ctrl, newStore(cfg))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}
