package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nbcite/nbcite/internal/citation"
	"github.com/nbcite/nbcite/internal/identifier"
	"github.com/nbcite/nbcite/internal/nb"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Row is one exported citation. Failed inputs keep Input, MediaID and Error.
type Row struct {
	Input         string            `json:"input" yaml:"input" parquet:"input"`
	MediaID       string            `json:"media_id" yaml:"media_id" parquet:"media_id"`
	Title         string            `json:"title,omitempty" yaml:"title,omitempty" parquet:"title"`
	URN           string            `json:"urn,omitempty" yaml:"urn,omitempty" parquet:"urn"`
	URNURL        string            `json:"urn_url,omitempty" yaml:"urn_url,omitempty" parquet:"urn_url"`
	Bokmal        string            `json:"bokmal,omitempty" yaml:"bokmal,omitempty" parquet:"bokmal"`
	Nynorsk       string            `json:"nynorsk,omitempty" yaml:"nynorsk,omitempty" parquet:"nynorsk"`
	Lokalhistorie string            `json:"lokalhistorie,omitempty" yaml:"lokalhistorie,omitempty" parquet:"lokalhistorie"`
	Metadata      map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" parquet:"-"`
	Error         string            `json:"error,omitempty" yaml:"error,omitempty" parquet:"error"`
}

// ReadInputs reads one item URL, URN or id per line. Blank lines and lines
// starting with # are skipped.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading inputs: %w", err)
	}
	return inputs, nil
}

// Collect resolves, fetches and formats every input in order. A failed fetch
// produces a row with Error set; Collect stops early only when ctx is done.
func Collect(ctx context.Context, fetcher nb.Fetcher, formatter citation.Formatter, inputs []string) ([]Row, error) {
	rows := make([]Row, 0, len(inputs))
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		row := Row{Input: input, MediaID: identifier.Resolve(input)}
		book, err := fetcher.Fetch(ctx, row.MediaID)
		if err != nil {
			slog.Warn("Skipping input", "input", input, "err", err)
			row.Error = err.Error()
			rows = append(rows, row)
			continue
		}

		set := formatter.Format(book)
		row.Title = citation.ExtractFields(set.Metadata, book.Title).Title
		row.URN = set.URN
		row.URNURL = set.URNURL
		row.Bokmal = set.Bokmal
		row.Nynorsk = set.Nynorsk
		row.Lokalhistorie = set.Lokalhistorie
		row.Metadata = set.Metadata
		rows = append(rows, row)

		slog.Debug("Exported citation", "n", i+1, "of", len(inputs), "urn", row.URN)
	}
	return rows, nil
}

// WriteFile writes rows to path, choosing the format from its extension
// (.parquet, .jsonl/.json, .yaml/.yml).
func WriteFile(path string, rows []Row) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".parquet", ".jsonl", ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl, .yaml)", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	switch ext {
	case ".parquet":
		err = WriteParquet(file, rows)
	case ".jsonl", ".json":
		err = WriteJSONL(file, rows)
	default:
		err = WriteYAML(file, rows)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return err
}

func WriteJSONL(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	return nil
}

func WriteYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// WriteParquet writes rows as a single Parquet file. Metadata is not
// included; the citation columns are.
func WriteParquet(w io.Writer, rows []Row) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
