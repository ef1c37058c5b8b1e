package core

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a 64-bit content hash of a document's text.
// It is used to detect unchanged rows when re-ingesting a source.
type Fingerprint uint64

// FingerprintText computes a deterministic fingerprint from text content
// using BLAKE2b hashing. Identical text always produces the same fingerprint.
func FingerprintText(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// DocumentID derives the stable identifier for a row of a named source.
// The same source name and row index always produce the same ID, which makes
// re-ingestion of a source idempotent at the identity level.
func DocumentID(source string, row int) string {
	return fmt.Sprintf("%s_row%d", source, row)
}

// Record is one row of an ingested table: column names paired with cell
// values in original column order. Values may be nil for missing cells.
// Records are transient; they exist only while a Document is being built.
type Record struct {
	Columns []string
	Values  []any
}

// FormatValue renders a single cell value for document serialization.
// Missing values (nil and NaN) render as the empty string rather than a
// null token, so a missing cell serializes as "column: ".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if math.IsNaN(val) {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(val)) {
			return ""
		}
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Metadata keys stored alongside each index entry.
const (
	MetaSource = "source"
	MetaRow    = "row"
)

// Document is the textual serialization of one source record together with
// its identifier and provenance. Documents are immutable once built.
type Document struct {
	ID          string
	Text        string
	Source      string
	Row         int
	Fingerprint Fingerprint
}

// Metadata returns the provenance metadata committed with the document.
func (d *Document) Metadata() map[string]string {
	return map[string]string{
		MetaSource: d.Source,
		MetaRow:    strconv.Itoa(d.Row),
	}
}

// IndexEntry is the committed (id, text, vector, metadata) tuple stored in a
// collection. Vector is unit-normalized before commit so that dot product
// equals cosine similarity at query time.
type IndexEntry struct {
	ID          string
	Text        string
	Vector      []float32
	Metadata    map[string]string
	Fingerprint Fingerprint
	InsertedAt  time.Time // When the entry was first committed
	UpdatedAt   time.Time // When the entry was last overwritten
}

// QueryMatch is a raw similarity hit returned by the store.
type QueryMatch struct {
	Entry *IndexEntry
	Score float32
}

// Hit is a shaped query result. Source is empty and Row is -1 when the
// matched entry carries no provenance metadata.
type Hit struct {
	Text   string
	Source string
	Row    int
}
