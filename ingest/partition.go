package ingest

import "github.com/poiesic/tabvec/core"

// Partition splits documents into contiguous, order-preserving batches of at
// most batchSize elements each. Only the final batch may be smaller. Batch
// sizes sum exactly to len(docs); concatenating the batches in order
// reconstructs the input sequence.
//
// Batches share the input's backing array; callers must not mutate them.
func Partition(docs []core.Document, batchSize int) ([][]core.Document, error) {
	if err := core.ValidateBatchSize(batchSize); err != nil {
		return nil, err
	}

	batches := make([][]core.Document, 0, (len(docs)+batchSize-1)/batchSize)
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batches = append(batches, docs[start:end])
	}
	return batches, nil
}
