package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"dataviz/internal/chart"
	"dataviz/internal/dataset"
	"dataviz/internal/render"
	"dataviz/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadFile(ctx context.Context, path string) (dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.Load(ctx, path, f)
}

func newPreviewCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the first rows of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logger.Debug("dataset loaded", zap.String("file", args[0]), zap.Int("rows", len(ds)))
			fmt.Fprintln(cmd.OutOrStdout(), previewTable(ds.Head(rows)))
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows\n", len(ds.Head(rows)), len(ds))
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of rows to show")
	return cmd
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE",
		Short: "List columns with their inferred type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			controller := state.NewController(render.NewChartJSRenderer(), state.WithLogger(logger))
			if err := controller.LoadDataset(args[0], ds); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), columnsTable(controller.ColumnTypes()))
			return nil
		},
	}
}

func newSuggestCmd() *cobra.Command {
	var x, y string
	cmd := &cobra.Command{
		Use:   "suggest FILE",
		Short: "Recommend a chart type for two columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s, err := chart.SuggestFor(ds, x, y)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Label)
			return nil
		},
	}
	cmd.Flags().StringVar(&x, "x", "", "X axis column")
	cmd.Flags().StringVar(&y, "y", "", "Y axis column")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

type plotOptions struct {
	x, y         string
	filterColumn string
	filterValue  string
	pngPath      string
	width        int
	height       int
	seed         int64
}

func newPlotCmd() *cobra.Command {
	var opts plotOptions
	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Print the Chart.js config for two columns",
		Long: `Print the Chart.js config inferred for two columns as JSON.

With --filter-column and --filter-value only rows whose column contains the
value (ignoring case) are drawn. With --png the chart is also drawn to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.x, "x", "", "X axis column")
	cmd.Flags().StringVar(&opts.y, "y", "", "Y axis column")
	cmd.Flags().StringVar(&opts.filterColumn, "filter-column", "", "Column to filter on")
	cmd.Flags().StringVar(&opts.filterValue, "filter-value", "", "Substring the filter column must contain")
	cmd.Flags().StringVar(&opts.pngPath, "png", "", "Also write the chart as PNG to this path")
	cmd.Flags().IntVar(&opts.width, "width", 1024, "PNG width")
	cmd.Flags().IntVar(&opts.height, "height", 512, "PNG height")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for frequency chart colours (0 = random)")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func runPlot(cmd *cobra.Command, path string, opts plotOptions) error {
	controller := state.NewController(render.NewChartJSRenderer(),
		state.WithInferencer(chart.NewInferencer(chart.WithPalette(chart.NewRandomPalette(opts.seed)))),
		state.WithLogger(logger))
	defer controller.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	_, err = controller.Load(cmd.Context(), path, f)
	f.Close()
	if err != nil {
		return err
	}

	controller.Select(opts.x, opts.y)
	ch, err := controller.Plot()
	if err != nil {
		return err
	}

	if opts.filterColumn != "" || opts.filterValue != "" {
		res, err := controller.ApplyFilter(opts.filterColumn, opts.filterValue)
		switch {
		case errors.Is(err, dataset.ErrNoMatches):
			// same as the page: warn and keep the unfiltered chart
			fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
		case err != nil:
			return err
		case res.Chart != nil:
			ch = res.Chart
		}
	}

	if ch == nil {
		return fmt.Errorf("nothing to plot: columns %q and %q must both exist in a non-empty dataset", opts.x, opts.y)
	}

	cfg, err := render.BuildConfig(ch.Spec())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return err
	}

	if opts.pngPath != "" {
		return writePNG(ch.Spec(), opts)
	}
	return nil
}

func writePNG(spec chart.Spec, opts plotOptions) error {
	img, err := render.NewPNGRenderer(opts.width, opts.height).Render(spec)
	if err != nil {
		return err
	}
	defer img.Release()

	data, err := img.(*render.PNGChart).Image()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.pngPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.pngPath, err)
	}
	logger.Info("chart written", zap.String("path", opts.pngPath), zap.Int("bytes", len(data)))
	return nil
}
