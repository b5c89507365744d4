package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"
)

// PebbleKV stores keys in a Pebble database directory.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a Pebble database at dir.
func OpenPebble(dir string) (*PebbleKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble db: %w", err)
	}
	return &PebbleKV{db: db}, nil
}

// Get returns a copy of the value for key.
func (p *PebbleKV) Get(key string) ([]byte, error) {
	data, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer closer.Close()

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Set writes value under key and syncs.
func (p *PebbleKV) Set(key string, value []byte) error {
	if err := p.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (p *PebbleKV) Delete(key string) error {
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists keys with the given prefix in byte order.
func (p *PebbleKV) Keys(prefix string) ([]string, error) {
	opts := &pebble.IterOptions{}
	if prefix != "" {
		opts.LowerBound = []byte(prefix)
		opts.UpperBound = prefixUpperBound([]byte(prefix))
	}

	it, err := p.db.NewIter(opts)
	if err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	defer func() { _ = it.Close() }()

	var keys []string
	for it.First(); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	return keys, nil
}

// Close closes the database.
func (p *PebbleKV) Close() error {
	return p.db.Close()
}

// prefixUpperBound returns the smallest key greater than every key with
// the prefix, or nil when there is none.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
