package dataset

import (
	"bytes"         // In-memory buffers
	"encoding/csv"  // CSV parsing
	"errors"        // Error matching
	"fmt"           // Error formatting
	"io"            // Reader interfaces
	"io/fs"         // File system errors
	"os"            // File access
	"path/filepath" // Path handling
	"strings"       // String helpers

	"github.com/sirupsen/logrus" // Logging
)

var (
	// ErrEmpty is returned for input without a header row.
	ErrEmpty = errors.New("dataset has no header row")
	// ErrMalformed wraps every parse failure of an upload.
	ErrMalformed = errors.New("malformed dataset")
)

// Parse reads a comma separated file with a header row. Short rows are
// padded with missing cells; rows longer than the header are an error.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	names := uniqueNames(header)

	t := &Table{
		columns: make([]*Column, len(names)),
		byName:  make(map[string]*Column, len(names)),
	}
	for i, name := range names {
		c := &Column{Name: name}
		t.columns[i] = c
		t.byName[name] = c
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" && len(names) > 1 {
			continue // Blank line
		}
		if len(record) > len(names) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(names), len(record))
		}
		for i, c := range t.columns {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			missing := IsMissing(cell)
			if missing {
				cell = ""
			}
			c.Raw = append(c.Raw, cell)
			c.Missing = append(c.Missing, missing)
		}
		t.rows++
	}

	for _, c := range t.columns {
		c.infer()
	}
	return t, nil
}

// Load reads the dataset at path. It returns (nil, false) when the file
// does not exist or cannot be parsed; parse failures are logged.
// Nothing is cached: every call reads the file again.
func Load(path string) (*Table, bool) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"path": path, "error": err.Error()}).Warn("Failed to open dataset")
		return nil, false
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		logrus.WithFields(logrus.Fields{"path": path, "error": err.Error()}).Warn("Failed to parse dataset")
		return nil, false
	}
	return t, true
}

// Replace validates the upload and swaps it in for the file at path.
// The new content is written to a sibling temp file and renamed over
// the old one, so readers see either the old or the new dataset.
func Replace(path string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("replace dataset: %w", err)
	}
	return t, nil
}
