package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nbcite/nbcite/internal/citation"
	"github.com/nbcite/nbcite/internal/config"
	"github.com/nbcite/nbcite/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var inputPath, outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write citations for a list of nb.no items to a file",
		Long: `Reads one item URL, URN or media id per line and writes a citation row
for each. Inputs that cannot be fetched are kept with their error message.

The output format follows the file extension: .parquet, .jsonl or .yaml.`,
		Example: `  nbcite export --input items.txt --output citations.parquet

  cat items.txt | nbcite export --input - --output citations.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if inputPath != "-" {
				file, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer file.Close()
				in = file
			}

			inputs, err := export.ReadInputs(in)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no inputs found in %s", inputPath)
			}

			rows, err := export.Collect(cmd.Context(), newCatalogueClient(cfg), citation.Formatter{URNResolver: cfg.URNResolver}, inputs)
			if err != nil {
				return err
			}

			if err := export.WriteFile(outputPath, rows); err != nil {
				return err
			}

			failed := 0
			for _, row := range rows {
				if row.Error != "" {
					failed++
				}
			}
			slog.Info("Export complete", "output", outputPath, "rows", len(rows), "failed", failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "File with one item per line (- for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "citations.jsonl", "Output file (.parquet, .jsonl, .yaml)")

	return cmd
}
