// Package addressbook implements the in-memory, name-keyed contact store.
package addressbook

import (
	"iter"

	"github.com/smileynet/contacts/internal/contact"
)

// DefaultBatchSize is the batch size used when Iterator is given a non-positive size.
const DefaultBatchSize = 10

// DeleteStatus reports the outcome of Delete.
type DeleteStatus string

const (
	Deleted  DeleteStatus = "deleted"
	NotFound DeleteStatus = "not found"
)

// Message returns the user-facing text for the status.
func (s DeleteStatus) Message(name string) string {
	if s == Deleted {
		return "Contact " + name + " deleted"
	}
	return "Contact with name " + name + " not found"
}

// Book maps contact names to records. Iteration and search follow the order
// in which names were first added; overwriting a record keeps its position.
type Book struct {
	records map[string]contact.Record
	order   []string
}

// New returns an empty Book.
func New() *Book {
	return &Book{records: make(map[string]contact.Record)}
}

// Add inserts r, replacing any record with the same name.
func (b *Book) Add(r contact.Record) {
	key := r.Name().Value()
	if _, ok := b.records[key]; !ok {
		b.order = append(b.order, key)
	}
	b.records[key] = r
}

// Get returns the record stored under name.
func (b *Book) Get(name string) (contact.Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Len returns the number of records.
func (b *Book) Len() int { return len(b.order) }

// Names returns a snapshot of the stored names in key order.
func (b *Book) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Find returns every record whose name contains query (case-insensitive) or
// any of whose phones contains query (case-sensitive). Each record appears at
// most once, in key order.
func (b *Book) Find(query string) []contact.Record {
	var matches []contact.Record
	for _, key := range b.order {
		r := b.records[key]
		if r.Matches(query) {
			matches = append(matches, r)
		}
	}
	return matches
}

// Delete removes the record with exactly this name, if present.
func (b *Book) Delete(name string) DeleteStatus {
	if _, ok := b.records[name]; !ok {
		return NotFound
	}
	delete(b.records, name)
	for i, key := range b.order {
		if key == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return Deleted
}

// Iterator returns a BatchIterator over a snapshot of the current names.
func (b *Book) Iterator(batchSize int) *BatchIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchIterator{book: b, keys: b.Names(), size: batchSize}
}

// Batches adapts a fresh Iterator to a range-over-func sequence.
func (b *Book) Batches(batchSize int) iter.Seq[[]contact.Record] {
	return func(yield func([]contact.Record) bool) {
		it := b.Iterator(batchSize)
		for {
			batch, ok := it.Next()
			if !ok || !yield(batch) {
				return
			}
		}
	}
}

// BatchIterator yields contiguous batches of records over the names captured
// when it was created. It is single-use.
//
// Names deleted after the snapshot are skipped, so a batch may be shorter
// than its slot; a slot with no surviving records is skipped entirely.
// Names added after the snapshot are not visited.
type BatchIterator struct {
	book *Book
	keys []string
	size int
	pos  int
}

// Next returns the next non-empty batch, or false once the snapshot is exhausted.
func (it *BatchIterator) Next() ([]contact.Record, bool) {
	for it.pos < len(it.keys) {
		end := min(it.pos+it.size, len(it.keys))
		batch := make([]contact.Record, 0, end-it.pos)
		for _, key := range it.keys[it.pos:end] {
			if r, ok := it.book.records[key]; ok {
				batch = append(batch, r)
			}
		}
		it.pos = end
		if len(batch) > 0 {
			return batch, true
		}
	}
	return nil, false
}
