package rawstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/Isthali/processingdata/dataimport"
	"github.com/dgraph-io/badger/v4"
)

var ErrSpecimenNotFound = errors.New("specimen not found")

// DB is a wrapper around badger.DB keeping the raw acquisition tables of
// imported specimens, so a batch can be re-evaluated under a different
// standard without the original files.
type DB struct {
	bdb *badger.DB
}

// Close closes the internal Badger database. It is possible to call the
// method on a nil instance or on an uninitialized DB object, in which
// case it is a NOP.
func (db *DB) Close() error {
	if db != nil && db.bdb != nil {
		return db.bdb.Close()
	}
	return nil
}

func (db *DB) Flush() error {
	return db.bdb.DropAll()
}

func (db *DB) Size() (int64, int64) {
	return db.bdb.Size()
}

// StoreTable keeps the raw table of one specimen along with the import
// time. An existing table of the same specimen is overwritten.
func (db *DB) StoreTable(specimenID string, table *dataimport.Table) error {
	value, err := encodeTable(table)
	if err != nil {
		return fmt.Errorf("failed to store specimen %s: %w", specimenID, err)
	}
	err = db.bdb.Update(func(txn *badger.Txn) error {
		if err := txn.Set(encodeSpecimenKey(RawTablePrefix, specimenID), value); err != nil {
			return err
		}
		return txn.Set(
			encodeSpecimenKey(MetaDataPrefix, specimenID), encodeTime(time.Now()))
	})
	if err != nil {
		return fmt.Errorf("failed to store specimen %s: %w", specimenID, err)
	}
	return nil
}

// LoadTable reads back the raw table of one specimen.
func (db *DB) LoadTable(specimenID string) (*dataimport.Table, error) {
	var table *dataimport.Table
	err := db.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeSpecimenKey(RawTablePrefix, specimenID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			table, err = decodeTable(val)
			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("no raw data for specimen %s: %w", specimenID, ErrSpecimenNotFound)

	} else if err != nil {
		return nil, fmt.Errorf("failed to load specimen %s: %w", specimenID, err)
	}
	return table, nil
}

// ReadImportTime reports when the specimen's raw table was stored.
func (db *DB) ReadImportTime(specimenID string) (time.Time, error) {
	var result time.Time
	err := db.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeSpecimenKey(MetaDataPrefix, specimenID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			t, decodeErr := decodeTime(val)
			if decodeErr != nil {
				return decodeErr
			}
			result = t
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return result, fmt.Errorf("no raw data for specimen %s: %w", specimenID, ErrSpecimenNotFound)
	}
	return result, err
}

// ListSpecimens returns the IDs of all stored specimens in key order.
func (db *DB) ListSpecimens() ([]string, error) {
	ans := make([]string, 0, 16)
	err := db.bdb.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{RawTablePrefix}
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ans = append(ans, string(it.Item().Key()[1:]))
		}
		return nil
	})
	return ans, err
}

func OpenDB(path string) (*DB, error) {
	opts := badger.DefaultOptions(path).
		WithValueLogFileSize(64 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw store: %w", err)
	}
	return &DB{bdb: db}, nil
}
