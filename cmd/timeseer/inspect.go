package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timeseer/forecastkit"
)

func newInspectCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Parse a tabular file, infer its schema, and summarize each numeric column",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("unable to read %s: %w", file, err)
			}

			analyzer := forecastkit.NewAnalyzer(nil, nil)
			ds, err := analyzer.Load(file, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "index column: %s\n", ds.Schema.IndexColumn)
			fmt.Fprintf(out, "rows: %d (skipped %d, dropped %d)\n", len(ds.Rows), ds.Skipped, ds.Dropped)
			for _, col := range ds.Schema.ValueColumns {
				sum := analyzer.Stats(col)
				fmt.Fprintf(out, "%s\tmin=%.2f max=%.2f avg=%.2f\n", col, sum.Min, sum.Max, sum.Avg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a csv or xlsx file")
	cmd.MarkFlagRequired("file")
	return cmd
}
