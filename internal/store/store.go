/*
PURPOSE:
  Persists benchmark results to a JSON file holding an array of records.
  Older files that hold a single bare object are upgraded to an array on the next append.

REQUIREMENTS:
  User-specified:
  - Append each run to a JSON file so history accumulates across runs.
  - Never silently overwrite or discard existing data.

  Implementation-discovered:
  - Records already in the file are kept byte-for-byte (modulo indentation);
    they are never decoded and re-encoded on append.
  - An empty file is treated as an empty array.
  - The rewrite goes through a temp file and a rename so a failed write never truncates the target.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (append, history, export), internal/server (read)
  - Consumes: internal/model.ResultRecord

ERROR HANDLING:
  - ErrCorruptStore when the existing content is neither an array of records nor a single record.
  - Filesystem errors are wrapped with the path.

IMPLEMENTATION RULES:
  - Normalize is pure; any other backend can reuse it.
  - No locking: one writer per path.

USAGE:
  s := store.NewJSONFile("results/history.json")
  err := s.Append(rec)

SELF-HEALING INSTRUCTIONS:
  - If a file fails with ErrCorruptStore, inspect it by hand. Do not delete it automatically.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Normalize if the on-disk shape ever changes again.
*/

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pibench/pibench/internal/model"
)

// ErrCorruptStore is returned when an existing result file cannot be parsed.
var ErrCorruptStore = errors.New("corrupt result store")

// Store is a sequence of result records.
type Store interface {
	Append(rec model.ResultRecord) error
	Load() ([]model.ResultRecord, error)
}

// Normalize decodes the content of a result file. An empty document is an
// empty sequence, an array is decoded element by element, and a single object
// is returned as a one-element sequence.
func Normalize(raw []byte) ([]model.ResultRecord, error) {
	elems, err := normalizeRaw(raw)
	if err != nil {
		return nil, err
	}
	records := make([]model.ResultRecord, 0, len(elems))
	for i, elem := range elems {
		var rec model.ResultRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorruptStore, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeRaw splits a result file into its records without re-encoding them.
func normalizeRaw(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		for i, elem := range elems {
			if err := checkRecord(elem); err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrCorruptStore, i, err)
			}
		}
		return elems, nil
	case '{':
		if err := checkRecord(trimmed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		return []json.RawMessage{json.RawMessage(trimmed)}, nil
	}
	return nil, fmt.Errorf("%w: expected a JSON array or object", ErrCorruptStore)
}

func checkRecord(elem json.RawMessage) error {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 || elem[0] != '{' {
		return errors.New("not a JSON object")
	}
	var rec model.ResultRecord
	return json.Unmarshal(elem, &rec)
}

// JSONFile is a Store backed by one JSON file.
type JSONFile struct {
	Path string
}

// NewJSONFile creates a JSONFile for path. The file is created on first append.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path}
}

// Load reads every record in the file. A missing file holds no records.
func (s *JSONFile) Load() ([]model.ResultRecord, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read result file %s: %w", s.Path, err)
	}
	records, err := Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse result file %s: %w", s.Path, err)
	}
	return records, nil
}

// Append adds rec to the end of the file, creating it and its parent directories if needed.
func (s *JSONFile) Append(rec model.ResultRecord) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory for %s: %w", s.Path, err)
		}
	}

	var existing []json.RawMessage
	data, err := os.ReadFile(s.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("could not read existing result file %s: %w", s.Path, err)
	default:
		existing, err = normalizeRaw(data)
		if err != nil {
			return fmt.Errorf("could not parse existing result file %s: %w", s.Path, err)
		}
	}

	payload, err := encode(existing, rec)
	if err != nil {
		return fmt.Errorf("could not serialize result: %w", err)
	}
	return writeFileAtomic(s.Path, payload)
}

func encode(existing []json.RawMessage, rec model.ResultRecord) ([]byte, error) {
	next, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	all := append(existing, json.RawMessage(next))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", tmpName, err)
	}
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("could not set mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("could not write JSON file to %s: %w", path, err)
	}
	return nil
}
