/*
PURPOSE:
  Picks the export writer for a format name and streams records through it.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (export)
  - Uses: internal/output/csv.go, internal/output/json.go

ERROR HANDLING:
  - Unknown formats are rejected before any file is created.
*/

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pibench/pibench/internal/model"
)

// RecordWriter is implemented by CSVWriter and JSONWriter.
type RecordWriter interface {
	Write(r model.ResultRecord) error
	Close() error
}

// Export formats.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// NewRecordWriter opens a writer for format. An empty path or "-" writes to stdout.
func NewRecordWriter(format, path string, stdout io.Writer) (RecordWriter, error) {
	toStdout := path == "" || path == "-"
	switch strings.ToLower(format) {
	case FormatCSV:
		if toStdout {
			return NewCSVStream(stdout)
		}
		return NewCSVWriter(path)
	case FormatJSONL, "ndjson":
		if toStdout {
			return NewJSONStream(stdout), nil
		}
		return NewJSONWriter(path)
	}
	return nil, fmt.Errorf("unknown export format %q (want %s or %s)", format, FormatCSV, FormatJSONL)
}

// WriteAll writes every record and closes w.
func WriteAll(w RecordWriter, records []model.ResultRecord) error {
	for i, r := range records {
		if err := w.Write(r); err != nil {
			w.Close()
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}
	return w.Close()
}
