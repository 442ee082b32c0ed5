package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/export"
	"github.com/san-kum/attractor/internal/logging"
	"github.com/san-kum/attractor/internal/pipeline"
	"github.com/san-kum/attractor/internal/storage"
	"github.com/san-kum/attractor/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string
	sigma      float64
	rho        float64
	beta       float64
	dt         float64
	iterations int
	size       int

	outPath string
	format  string
	scale   int
	save    bool

	previewCols int
)

func main() {
	rootCmd := newRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "attractor",
		Short:         "lorenz attractor density renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runFromEnv,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".attractor", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (info, debug, trace)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "render using ABOUND_CONFIG_PATH and ABOUND_OUTPUT_PATH",
		Args:  cobra.NoArgs,
		RunE:  runFromEnv,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render with explicit parameters",
		Args:  cobra.NoArgs,
		RunE:  renderImage,
	}
	addParamFlags(renderCmd)
	renderCmd.Flags().StringVar(&outPath, "out", "", "output path (default $ABOUND_OUTPUT_PATH)")
	renderCmd.Flags().StringVar(&format, "format", "", "png, svg, tiff or bmp (default from extension)")
	renderCmd.Flags().IntVar(&scale, "scale", 1, "integer upscale factor")
	renderCmd.Flags().BoolVar(&save, "save", false, "archive the run under --data")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "render to the terminal",
		Args:  cobra.NoArgs,
		RunE:  previewImage,
	}
	addParamFlags(previewCmd)
	previewCmd.Flags().IntVar(&previewCols, "cols", 64, "preview width in characters")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "print a preset as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  showPreset,
	})
	presetsCmd.AddCommand(&cobra.Command{
		Use:   "save [name] [path]",
		Short: "write a preset to a config file",
		Args:  cobra.ExactArgs(2),
		RunE:  savePreset,
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot density marginals of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(runCmd, renderCmd, previewCmd, presetsCmd, listCmd, plotCmd)
	return rootCmd
}

func addParamFlags(cmd *cobra.Command) {
	d := config.DefaultParams()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&sigma, "sigma", d.Sigma, "sigma coefficient")
	cmd.Flags().Float64Var(&rho, "rho", d.Rho, "rho coefficient")
	cmd.Flags().Float64Var(&beta, "beta", d.Beta, "beta coefficient")
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().IntVar(&iterations, "iterations", d.Iterations, "number of trajectory points")
	cmd.Flags().IntVar(&size, "size", d.ResultSize, "image edge length in pixels")
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logLevel, os.Stderr)
}

// runFromEnv is the unattended entry point: parameters and destination both
// come from the environment. Paths without a known image extension get PNG.
func runFromEnv(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, err := config.LoadFromEnv()
	if err != nil {
		return dynamo.Wrap(dynamo.StageLoadConfig, err)
	}
	out, err := config.OutputPathFromEnv()
	if err != nil {
		return dynamo.Wrap(dynamo.StageWriteOutput, err)
	}
	f, err := export.FormatFromPath(out)
	if err != nil {
		logger.Debug("writing png", "path", out, "reason", err)
		f = export.FormatPNG
	}
	sink := &export.FileSink{Path: out, Format: f, Scale: 1}

	res, err := pipeline.Run(cmd.Context(), p, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := sink.Write(res.Image); err != nil {
		return dynamo.Wrap(dynamo.StageWriteOutput, err)
	}
	logger.Info("image written", "path", out, "format", f, "elapsed", res.Elapsed)
	return nil
}

// resolveParams layers defaults, then a preset or config file, then any
// flags set explicitly on the command line.
func resolveParams(cmd *cobra.Command) (config.Params, error) {
	p := config.DefaultParams()

	if preset != "" && configFile != "" {
		return p, errors.New("--preset and --config are mutually exclusive")
	}
	if preset != "" {
		pp, ok := config.GetPreset(preset)
		if !ok {
			return p, fmt.Errorf("unknown preset: %s", preset)
		}
		p = pp
	}
	if configFile != "" {
		cp, err := config.Load(configFile)
		if err != nil {
			return p, err
		}
		p = cp
	}

	flags := cmd.Flags()
	if flags.Changed("sigma") {
		p.Sigma = sigma
	}
	if flags.Changed("rho") {
		p.Rho = rho
	}
	if flags.Changed("beta") {
		p.Beta = beta
	}
	if flags.Changed("dt") {
		p.Dt = dt
	}
	if flags.Changed("iterations") {
		p.Iterations = iterations
	}
	if flags.Changed("size") {
		p.ResultSize = size
	}
	return p, p.Validate()
}

func renderImage(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, err := resolveParams(cmd)
	if err != nil {
		return dynamo.Wrap(dynamo.StageLoadConfig, err)
	}

	out := outPath
	if out == "" {
		if out, err = config.OutputPathFromEnv(); err != nil {
			return dynamo.Wrap(dynamo.StageWriteOutput, err)
		}
	}
	sink, err := export.NewFileSink(out, format, scale)
	if err != nil {
		return dynamo.Wrap(dynamo.StageWriteOutput, err)
	}

	res, err := pipeline.Run(cmd.Context(), p, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := sink.Write(res.Image); err != nil {
		return dynamo.Wrap(dynamo.StageWriteOutput, err)
	}
	logger.Info("image written", "path", out, "format", sink.Format, "scale", sink.Scale, "elapsed", res.Elapsed)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(p, res.Grid, res.Bounds, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", runID)
	}
	return nil
}

func previewImage(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return dynamo.Wrap(dynamo.StageLoadConfig, err)
	}

	res, err := pipeline.Run(cmd.Context(), p, pipeline.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprint(w, viz.Preview(res.Grid, previewCols))
	fmt.Fprintln(w, viz.Separator(previewCols))
	fmt.Fprint(w, viz.Summary(p, res.Grid, res.Bounds, res.Elapsed))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIGMA\tRHO\tBETA\tDT\tITER\tSIZE")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%.4f\t%g\t%d\t%d\n",
			name, p.Sigma, p.Rho, p.Beta, p.Dt, p.Iterations, p.ResultSize)
	}
	return w.Flush()
}

func showPreset(cmd *cobra.Command, args []string) error {
	p, ok := config.GetPreset(args[0])
	if !ok {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	return writeYAML(cmd.OutOrStdout(), p)
}

func savePreset(cmd *cobra.Command, args []string) error {
	p, ok := config.GetPreset(args[0])
	if !ok {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	if err := config.Save(args[1], p); err != nil {
		return fmt.Errorf("saving preset %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tITER\tSIZE\tDT\tMAX\tVISITED\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Iterations,
			run.Params.ResultSize,
			run.Params.Dt,
			run.MaxCount,
			run.Visited,
			run.Output,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	grid, err := st.LoadGrid(runID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run: %s\n", meta.ID)
	fmt.Fprintf(w, "params: %s\n", meta.Params)
	fmt.Fprintf(w, "bounds: %s\n\n", meta.Bounds)

	marginals := []struct {
		caption string
		data    []float64
	}{
		{"visits per column (x)", grid.ColumnSums()},
		{"visits per row (y)", grid.RowSums()},
	}
	for _, m := range marginals {
		graph := asciigraph.Plot(m.data,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(m.caption),
		)
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
	return nil
}
