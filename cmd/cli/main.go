package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"featurecard/adapters/featureapi"
	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
	"featurecard/internal"
	"featurecard/internal/config"
	"featurecard/internal/featureview"
	"featurecard/internal/plotspec"
	"featurecard/internal/render"
	"featurecard/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "featurecard",
		Short: "Inspect dataset columns as feature cards",
	}
	rootCmd.AddCommand(newCardCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cardOptions struct {
	state  feature.ViewState
	out    string
	asJSON bool
}

func newCardCmd() *cobra.Command {
	var opts cardOptions

	cmd := &cobra.Command{
		Use:   "card <fileId> <column>",
		Short: "Show the stats and chart of one column",
		Long: `Open a feature card against FEATURE_API_URL, print its descriptive stats
and write the chart as HTML (or the plot spec as JSON with --json).

Example: featurecard card train age --outliers --stacked --out age.html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := feature.NewKey(args[0], args[1])
			if err != nil {
				return err
			}
			return runCard(cmd.Context(), cmd.OutOrStdout(), key, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.state.UsePercentageAxis, "percentage", false, "Show percentages instead of counts")
	cmd.Flags().BoolVar(&opts.state.OutlierCleaningEnabled, "outliers", false, "Drop values outside the 5th-95th percentile band")
	cmd.Flags().BoolVar(&opts.state.SparsityCleaningEnabled, "sparsity", false, "Drop the mode when it covers more than 25% of values")
	cmd.Flags().BoolVar(&opts.state.StackedWrtTarget, "stacked", false, "Plot one series per target class")
	cmd.Flags().BoolVar(&opts.state.IsFullScreen, "fullscreen", false, "Size the chart for full screen")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write the chart (or plot spec) to this file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Write the plot spec JSON instead of chart HTML")

	return cmd
}

func runCard(ctx context.Context, stdout io.Writer, key feature.Key, opts cardOptions) error {
	appConfig, err := config.Load()
	if err != nil {
		return err
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	client := featureapi.NewClient(appConfig.FeatureAPI.URL, appConfig.FeatureAPI.Timeout,
		featureapi.WithTarget(appConfig.Data.TargetColumn))

	var out io.WriteCloser
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		out = f
		defer out.Close()
	}

	var surface ports.Surface
	switch {
	case out != nil && !opts.asJSON:
		surface = render.NewWriterSurface(out)
	case appConfig.Render.OutputDir != "":
		if err := os.MkdirAll(appConfig.Render.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", appConfig.Render.OutputDir, err)
		}
		surface = render.NewDirSurface(appConfig.Render.OutputDir)
	}

	ctrl := featureview.NewController(featureview.Config{
		Source:    client,
		Renderers: render.Default(),
		Surface:   surface,
		Viewport: plotspec.Viewport{
			Width:  appConfig.Render.ViewportWidth,
			Height: appConfig.Render.ViewportHeight,
		},
	})
	defer ctrl.Close()

	openErr := ctrl.Open(ctx, key, opts.state)
	snap := ctrl.Snapshot()
	printSnapshot(stdout, snap)

	if snap.View != nil && opts.asJSON {
		w := stdout
		if out != nil {
			w = out
		}
		if err := plotspec.Write(w, snap.View.Plot); err != nil {
			return fmt.Errorf("failed to write plot spec: %w", err)
		}
	}
	if snap.Rendered {
		if dir, ok := surface.(*render.DirSurface); ok {
			fmt.Fprintf(stdout, "Chart written to %s\n", dir.Path(ctrl.DivID()))
		} else if opts.out != "" {
			fmt.Fprintf(stdout, "Chart written to %s\n", opts.out)
		}
	}

	if snap.View == nil {
		return openErr
	}
	return nil
}

func printSnapshot(w io.Writer, snap featureview.Snapshot) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", cyan(fmt.Sprintf("=== %s ===", snap.Key)))

	if snap.View != nil {
		view := snap.View
		fmt.Fprintf(w, "Level:    %s\n", view.Record.Level)
		if view.Record.Description != "" {
			fmt.Fprintf(w, "About:    %s\n", view.Record.Description)
		}
		fmt.Fprintf(w, "Samples:  %d\n", view.Stats.SampleSize)
		fmt.Fprintf(w, "Toggles:  %s\n\n", gray(describeState(snap)))
		printStats(w, view, yellow)
	}

	if snap.Message != "" {
		paint := red
		if snap.Err == nil && snap.RenderErr == nil {
			paint = yellow
		}
		fmt.Fprintf(w, "\n%s\n", paint(snap.Message))
	}
	fmt.Fprintln(w)
}

const statNameWidth = 26

func printStats(w io.Writer, view *featureview.View, header func(a ...interface{}) string) {
	columns := []domainstats.Descriptive{view.Stats}
	titles := []string{"All"}
	if view.Stacked() {
		for _, cs := range view.ClassStats {
			columns = append(columns, cs.Stats)
			titles = append(titles, cs.Class)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-*s", statNameWidth, "Stat"))
	for _, title := range titles {
		b.WriteString(fmt.Sprintf("%14s", title))
	}
	fmt.Fprintln(w, header(b.String()))

	for _, name := range domainstats.Vocabulary(view.Record.Level) {
		b.Reset()
		b.WriteString(fmt.Sprintf("%-*s", statNameWidth, name))
		for _, stats := range columns {
			b.WriteString(fmt.Sprintf("%14s", stats.Get(name).String()))
		}
		fmt.Fprintln(w, b.String())
	}
}

func describeState(snap featureview.Snapshot) string {
	var on []string
	add := func(enabled bool, name string) {
		if enabled {
			on = append(on, name)
		}
	}
	s := snap.State
	add(s.UsePercentageAxis, "percentage")
	add(s.OutlierCleaningEnabled, "outliers")
	add(s.SparsityCleaningEnabled, "sparsity")
	add(s.StackedWrtTarget, "stacked")
	add(s.IsFullScreen, "fullscreen")
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}
