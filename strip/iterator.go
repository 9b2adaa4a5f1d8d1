package strip

import (
	"context"

	"github.com/poiesic/kbstrip/core"
)

const (
	// DefaultBatchSize is the default number of records visited per batch.
	DefaultBatchSize = 100
)

// DocumentIterator walks a document's records in order, in batches.
type DocumentIterator struct {
	doc       core.Document
	batchSize int
}

// NewDocumentIterator creates an iterator over doc.
// batchSize: number of records per batch (must be > 0)
func NewDocumentIterator(doc core.Document, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DocumentIterator{
		doc:       doc,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of records. Batches are subslices of the
// underlying document, so mutations made by fn are visible in the document.
// Iteration stops on the first error from fn; context cancellation is
// checked between batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]core.Record) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for i := 0; i < len(it.doc); i += it.batchSize {
		end := i + it.batchSize
		if end > len(it.doc) {
			end = len(it.doc)
		}

		if err := fn(it.doc[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
