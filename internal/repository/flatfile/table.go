// Package flatfile implements the repository interfaces over flat CSV
// tables, one file per entity.
//
// THE READ-MODIFY-WRITE CONTRACT:
// The storage primitive is deliberately crude: a table can only be loaded
// wholesale or replaced wholesale. There is no append, no patch, no version
// stamp, and no compare-and-swap. Every mutation therefore runs as
//
//	load full table → compute new full table → replace full table
//
// which is only correct if writers on the same table are serialized. Two
// unserialized writers would each load the same snapshot, each compute an
// independent result, and the second replace would silently discard the
// first one's rows (the classic lost update — e.g. two users voting on the
// same photo at once). Each table carries a sync.RWMutex for exactly this:
// Update holds the write lock across the whole load-mutate-replace cycle,
// while plain reads take the read lock and never wait behind each other.
// Cross-table operations are NOT atomic; see the poll service for how the
// one cross-table write in the system is sequenced.
//
// WHY CSV WITH QUOTING?
// The tables stay line-per-record and human-inspectable, matching the shape
// the data has always had on disk. encoding/csv applies RFC 4180 quoting on
// write, so commas, quotes, and newlines inside free-text fields (comment
// bodies, photo names) round-trip losslessly instead of corrupting the row.
// Files carry no header; the field order per entity is fixed in code.
package flatfile

import (
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sakif/gifboard/internal/apperror"
)

// table is the generic load/replace primitive over one CSV file.
//
// encode/decode translate between a record and its fixed-order field slice.
// decode errors are surfaced as ErrUnavailable: a row that no longer parses
// means the medium is damaged, not that the caller asked for something
// missing.
type table[T any] struct {
	path   string
	name   string
	fields int

	mu     sync.RWMutex
	encode func(T) []string
	decode func([]string) (T, error)
}

func newTable[T any](dir, name string, fields int, encode func(T) []string, decode func([]string) (T, error)) *table[T] {
	return &table[T]{
		path:   filepath.Join(dir, name+".csv"),
		name:   name,
		fields: fields,
		encode: encode,
		decode: decode,
	}
}

// Load returns the current full contents of the table.
//
// A table that has never been written reads as empty, not as an error.
// Readers take only the read lock: they see the latest durably-written
// snapshot and never block behind a writer's in-progress computation longer
// than the file swap itself.
func (t *table[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loadLocked()
}

// Update runs one load-mutate-replace cycle under the table's write lock.
//
// fn receives the full current record sequence and returns the full new
// one. Errors from fn pass through unchanged (so repositories can return
// apperror values from inside the critical section); the replace is skipped
// when fn fails. This is the only mutation path — there is no way to write
// a table without first having observed its current contents.
func (t *table[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.loadLocked()
	if err != nil {
		return err
	}

	updated, err := fn(records)
	if err != nil {
		return err
	}

	return t.replaceLocked(updated)
}

func (t *table[T]) loadLocked() ([]T, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Never initialized — an empty table, not a failure.
			return nil, nil
		}
		return nil, apperror.Unavailable("load "+t.name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = t.fields

	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperror.Unavailable("load "+t.name, err)
	}

	records := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := t.decode(row)
		if err != nil {
			return nil, apperror.Unavailable("load "+t.name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// replaceLocked durably overwrites the table with the given records.
//
// The write goes to a temp file in the same directory, is fsynced, and is
// then renamed over the table file. The rename is atomic on POSIX
// filesystems, so a crash mid-write leaves either the old table or the new
// one — never a truncated mix. This is what makes "later write wins in
// full" safe to rely on.
func (t *table[T]) replaceLocked(records []T) error {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), t.name+".*.tmp")
	if err != nil {
		return apperror.Unavailable("replace "+t.name, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	for _, rec := range records {
		if err := w.Write(t.encode(rec)); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return apperror.Unavailable("replace "+t.name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperror.Unavailable("replace "+t.name, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperror.Unavailable("replace "+t.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperror.Unavailable("replace "+t.name, err)
	}

	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return apperror.Unavailable("replace "+t.name, err)
	}
	return nil
}
