package history

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v3"
	"go.etcd.io/bbolt"
)

const (
	boltFile   = "runs.db"
	badgerDir  = "badger"
	pebbleDir  = "pebble"
	bucketName = "runs"
)

// encodeKey makes keys sort in timestamp order for non-negative timestamps.
func encodeKey(ts int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(ts))
	return key
}

// --- bbolt ---

type boltBackend struct {
	db *bbolt.DB
}

func openBolt(dir string) (*boltBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(dir, boltFile), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &boltBackend{db: db}, nil
}

func (b *boltBackend) put(ts int64, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(encodeKey(ts), value)
	})
}

func (b *boltBackend) scan(fn func(value []byte) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}

func (b *boltBackend) last() ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		_, v := tx.Bucket([]byte(bucketName)).Cursor().Last()
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (b *boltBackend) close() error { return b.db.Close() }

// --- badger ---

type badgerBackend struct {
	db *badger.DB
}

func openBadger(dir string) (*badgerBackend, error) {
	opts := badger.DefaultOptions(filepath.Join(dir, badgerDir)).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerBackend{db: db}, nil
}

func (b *badgerBackend) put(ts int64, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(ts), value)
	})
}

func (b *badgerBackend) scan(fn func(value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerBackend) last() ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		if !it.Valid() {
			return nil
		}
		var err error
		value, err = it.Item().ValueCopy(nil)
		return err
	})
	return value, err
}

func (b *badgerBackend) close() error { return b.db.Close() }

// --- pebble ---

type pebbleBackend struct {
	db *pebble.DB
}

func openPebble(dir string) (*pebbleBackend, error) {
	db, err := pebble.Open(filepath.Join(dir, pebbleDir), &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &pebbleBackend{db: db}, nil
}

func (b *pebbleBackend) put(ts int64, value []byte) error {
	return b.db.Set(encodeKey(ts), value, pebble.Sync)
}

func (b *pebbleBackend) scan(fn func(value []byte) error) (err error) {
	iter, err := b.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := iter.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close iterator")
		}
	}()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (b *pebbleBackend) last() (value []byte, err error) {
	iter, err := b.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := iter.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close iterator")
		}
	}()

	if iter.Last() {
		value = append([]byte(nil), iter.Value()...)
	}
	return value, nil
}

func (b *pebbleBackend) close() error { return b.db.Close() }
