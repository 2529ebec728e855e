package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nbcite/nbcite/internal/citation"
	"github.com/nbcite/nbcite/internal/config"
	"github.com/nbcite/nbcite/internal/identifier"
	"github.com/nbcite/nbcite/internal/nb"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type citeResult struct {
	Input    string       `json:"input" yaml:"input"`
	MediaID  string       `json:"media_id" yaml:"media_id"`
	Citation citation.Set `json:"citation" yaml:"citation"`

	book nb.Book
}

func newCiteCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "cite <url-or-id>...",
		Short: "Print citations for one or more nb.no items",
		Long: `Resolves each argument (item URL, URN:NBN or media id), fetches its
catalogue record and prints the bokmål, nynorsk and lokalhistoriewiki citations.`,
		Example: `  nbcite cite https://www.nb.no/items/37d98942e04aa67503580d489b760ef5

  nbcite cite URN:NBN:no-nb_digibok_2009041400001 --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			results, err := citeAll(cmd.Context(), newCatalogueClient(cfg), citation.Formatter{URNResolver: cfg.URNResolver}, args)
			if err != nil {
				return err
			}
			return writeCitations(cmd.OutOrStdout(), format, results)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")

	return cmd
}

func citeAll(ctx context.Context, fetcher nb.Fetcher, formatter citation.Formatter, inputs []string) ([]citeResult, error) {
	results := make([]citeResult, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			return nil, fmt.Errorf("empty URL or id")
		}

		mediaID := identifier.Resolve(input)
		book, err := fetcher.Fetch(ctx, mediaID)
		if err != nil {
			return nil, err
		}
		results = append(results, citeResult{
			Input:    input,
			MediaID:  mediaID,
			Citation: formatter.Format(book),
			book:     book,
		})
	}
	return results, nil
}

func writeCitations(w io.Writer, format string, results []citeResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeCitationText(w, r)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeCitationText(w io.Writer, r citeResult) {
	fmt.Fprintf(w, "%s\n%s\n\n", r.Citation.URN, r.Citation.URNURL)
	fmt.Fprintf(w, "Wikipedia (bokmål):\n%s\n\n", r.Citation.Bokmal)
	fmt.Fprintf(w, "Wikipedia (nynorsk):\n%s\n\n", r.Citation.Nynorsk)
	fmt.Fprintf(w, "Lokalhistoriewiki:\n%s\n", r.Citation.Lokalhistorie)

	if len(r.book.Metadata) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Felt", "Verdi"})
	for _, m := range r.book.Metadata {
		tw.AppendRow(table.Row{m.Label, m.Value})
	}
	fmt.Fprintf(w, "\n%s\n", tw.Render())
}
