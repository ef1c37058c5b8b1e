package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poiesic/tabvec/core"
)

// ReadCSV reads a delimited file into records, using the header row as
// column names and the file's basename as the source name.
// Empty cells are kept as empty strings, matching the missing-value
// serialization of the document builder.
func ReadCSV(path string) ([]core.Record, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, "", fmt.Errorf("%w: %s", ErrEmptyCSV, path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading csv header: %w", err)
	}

	var records []core.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("reading csv row %d: %w", len(records), err)
		}

		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = cell
		}
		records = append(records, core.Record{Columns: header, Values: values})
	}

	return records, filepath.Base(path), nil
}
