package localstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by KV.Get for a missing key.
	ErrNotFound = errors.New("key not found")

	// ErrStorageCorrupt marks a stored value that does not have the
	// expected shape.
	ErrStorageCorrupt = errors.New("storage corrupt")
)

// Drivers.
const (
	DriverPebble = "pebble"
	DriverSQLite = "sqlite"
)

// KV is a minimal string-keyed byte store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
	Close() error
}

// Open opens the backend named by driver at path.
func Open(driver, path string) (KV, error) {
	switch driver {
	case DriverPebble, "":
		kv, err := OpenPebble(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case DriverSQLite:
		kv, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
