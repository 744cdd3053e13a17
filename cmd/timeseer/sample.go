package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timeseer/forecastkit"
)

func newSampleCmd() *cobra.Command {
	var (
		output string
		months int
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic monthly housing-price CSV for trying the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("unable to create %s: %w", output, err)
			}
			defer file.Close()

			if err := forecastkit.WriteSampleCSV(file, months); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sample data written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "sample_housing_prices.csv", "output path")
	cmd.Flags().IntVar(&months, "months", 60, "number of monthly observations")
	return cmd
}
