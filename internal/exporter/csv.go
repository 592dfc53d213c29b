package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
	comma  rune
}

// NewCSVWriter creates a comma-separated writer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{logger: slog.Default(), comma: ','}
}

// WithLogger sets the logger used to report writes.
func (w *CSVWriter) WithLogger(logger *slog.Logger) *CSVWriter {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// WithComma changes the field separator, e.g. ';' for Portuguese Excel.
func (w *CSVWriter) WithComma(comma rune) *CSVWriter {
	w.comma = comma
	return w
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to out.
func (w *CSVWriter) WriteCSV(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = w.comma

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes a CSV file, creating its directory if needed.
func (w *CSVWriter) WriteFile(path string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.WriteCSV(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
