package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/timeseer/forecastkit"
	"github.com/timeseer/forecastkit/engine"
)

type forecastFlags struct {
	file           string
	column         string
	engineURL      string
	engineTimeout  time.Duration
	trainFraction  float64
	modelType      string
	p, d, q        int
	seasonal       bool
	seasonalPeriod int
	output         string
	profileRun     bool
}

func newForecastCmd() *cobra.Command {
	var flags forecastFlags

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Run one end-to-end forecast for a column of a tabular file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.profileRun {
				defer profile.Start(profile.ProfilePath(".")).Stop()
			}
			return runForecast(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "path to a csv or xlsx file")
	cmd.Flags().StringVarP(&flags.column, "column", "c", "", "value column to forecast")
	cmd.Flags().StringVar(&flags.engineURL, "engine", "http://localhost:5000", "forecast engine base url")
	cmd.Flags().DurationVar(&flags.engineTimeout, "engine-timeout", time.Minute, "engine request timeout")
	cmd.Flags().Float64Var(&flags.trainFraction, "train-fraction", forecastkit.DefaultTrainFraction, "fraction of the series used for training")
	cmd.Flags().StringVar(&flags.modelType, "model", "auto", "model type (auto or manual)")
	cmd.Flags().IntVar(&flags.p, "p", 1, "AR order for manual models")
	cmd.Flags().IntVar(&flags.d, "d", 1, "differencing order for manual models")
	cmd.Flags().IntVar(&flags.q, "q", 1, "MA order for manual models")
	cmd.Flags().BoolVar(&flags.seasonal, "seasonal", false, "include a seasonal component")
	cmd.Flags().IntVar(&flags.seasonalPeriod, "period", 12, "seasonal period")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write an html chart of the result to this path")
	cmd.Flags().BoolVar(&flags.profileRun, "profile", false, "write a cpu profile for the run")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("column")

	return cmd
}

func runForecast(cmd *cobra.Command, flags forecastFlags) error {
	data, err := os.ReadFile(flags.file)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", flags.file, err)
	}

	opt := forecastkit.NewDefaultOptions()
	opt.TrainFraction = flags.trainFraction
	opt.EngineTimeout = flags.engineTimeout
	opt.Observer = func(e forecastkit.Event) {
		if e.Warning {
			slog.Warn(e.Message, slog.String("stage", string(e.Stage)))
			return
		}
		slog.Info(e.Message, slog.String("stage", string(e.Stage)))
	}

	client := engine.NewHTTPClient(flags.engineURL, flags.engineTimeout)
	analyzer := forecastkit.NewAnalyzer(client, opt)

	if _, err := analyzer.Load(flags.file, data); err != nil {
		return err
	}

	cfg := engine.ModelConfig{
		Type:           engine.ModelAuto,
		Seasonal:       flags.seasonal,
		SeasonalPeriod: flags.seasonalPeriod,
	}
	if flags.modelType == string(engine.ModelManual) {
		cfg.Type = engine.ModelManual
		cfg.Order = engine.Order{P: flags.p, D: flags.d, Q: flags.q}
	}

	out, err := analyzer.Forecast(cmd.Context(), flags.column, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "forecast for %q: %d observations, train=%d test=%d\n",
		out.Column, len(out.Series), out.Plan.TrainCount, out.Plan.TestCount)
	fmt.Fprintf(cmd.OutOrStdout(), "metrics: rmse=%.4f mae=%.4f r2=%.4f accuracy=%.4f\n",
		out.Metrics.RMSE, out.Metrics.MAE, out.Metrics.R2, out.Metrics.Accuracy)
	if out.ModelInfo != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "model: aic=%.2f bic=%.2f\n", out.ModelInfo.AIC, out.ModelInfo.BIC)
	}
	for _, p := range out.Reconciled {
		if p.Actual == nil && p.Forecast != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", p.Date, *p.Forecast)
		}
	}

	if flags.output != "" {
		if err := forecastkit.WriteChartFile(flags.output, flags.column, out.Reconciled); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", flags.output)
	}
	return nil
}
