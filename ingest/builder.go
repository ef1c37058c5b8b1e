package ingest

import (
	"strings"

	"github.com/poiesic/tabvec/core"
)

// BuildDocument turns one record into a document with a stable identifier.
// The text is a comma-separated "column: value" serialization of the record
// in original column order; missing cells render as empty values. Building
// has no side effects and never fails for a well-formed record.
func BuildDocument(record *core.Record, source string, row int) (core.Document, error) {
	if err := core.ValidateRecord(record); err != nil {
		return core.Document{}, err
	}
	if source == "" {
		return core.Document{}, core.ErrEmptySource
	}
	if row < 0 {
		return core.Document{}, core.ErrNegativeRow
	}

	var sb strings.Builder
	for i, column := range record.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(column)
		sb.WriteString(": ")
		sb.WriteString(core.FormatValue(record.Values[i]))
	}
	text := sb.String()

	return core.Document{
		ID:          core.DocumentID(source, row),
		Text:        text,
		Source:      source,
		Row:         row,
		Fingerprint: core.FingerprintText(text),
	}, nil
}

// BuildDocuments builds one document per record under the given source name,
// assigning row indices in input order starting at 0.
func BuildDocuments(records []core.Record, source string) ([]core.Document, error) {
	docs := make([]core.Document, len(records))
	for i := range records {
		doc, err := BuildDocument(&records[i], source, i)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}
