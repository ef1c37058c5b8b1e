package badger

import "fmt"

// Key prefixes for different data types
const (
	collectionMarkerPrefix = "colrec"
	entryPrefix            = "entrec"
)

// makeCollectionKey generates the marker key recording that a collection exists.
func makeCollectionKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMarkerPrefix, name))
}

// makeEntryKey generates a key for an index entry inside a collection.
// Format: prefix:collection:id
func makeEntryKey(collection, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", entryPrefix, collection, id))
}

// makeEntryScanPrefix generates the prefix covering all entries of a collection.
// Collection names cannot contain the separator, so prefixes of distinct
// collections never overlap.
func makeEntryScanPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", entryPrefix, collection))
}
