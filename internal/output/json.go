/*
PURPOSE:
  Writes benchmark results to a JSON Lines file (NDJSON).
  Optimized for machine parsing and line-oriented tools (jq, vecq).

REQUIREMENTS:
  User-specified:
  - JSON Lines export of stored runs.

  Implementation-discovered:
  - The result store itself is a JSON array (dashboard contract); JSON Lines is export-only.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (export)
  - Consumes: internal/model.ResultRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("results.jsonl")
  w.Write(record)
  w.Close()
*/

package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/pibench/pibench/internal/model"
)

// JSONWriter handles writing results to a JSON Lines file.
type JSONWriter struct {
	closer  io.Closer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	jw := NewJSONStream(f)
	jw.closer = f
	return jw, nil
}

// NewJSONStream writes JSON Lines to w. Close does not close w.
func NewJSONStream(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONWriter{encoder: enc}
}

// Write writes a single result as a JSON line.
func (jw *JSONWriter) Write(r model.ResultRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	if jw.closer == nil {
		return nil
	}
	return jw.closer.Close()
}
