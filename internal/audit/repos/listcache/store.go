// Package listcache keeps the last good copy of each downloaded list
// in a bbolt database, so a source that fails to download can still be
// audited from its previous content.
package listcache

import (
	"encoding/binary"
	"time"

	bbolt "go.etcd.io/bbolt"
)

var (
	bucketContent = []byte("content")
	bucketFetched = []byte("fetched")
)

// Store is a bbolt-backed download cache keyed by source identifier.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the cache database at path and ensures
// buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketContent); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketFetched)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put stores the raw content for a source along with when it was fetched.
func (s *Store) Put(source, content string, fetchedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketContent).Put([]byte(source), []byte(content)); err != nil {
			return err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(fetchedUnix))
		return tx.Bucket(bucketFetched).Put([]byte(source), buf)
	})
}

// Get returns the cached content and fetch time for a source, with
// ok=false when the source has never been cached.
func (s *Store) Get(source string) (content string, fetchedUnix int64, ok bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketContent).Get([]byte(source))
		if v == nil {
			return nil
		}
		ok = true
		content = string(v)
		if f := tx.Bucket(bucketFetched).Get([]byte(source)); len(f) == 8 {
			fetchedUnix = int64(binary.BigEndian.Uint64(f))
		}
		return nil
	})
	if err != nil {
		return "", 0, false, err
	}
	return content, fetchedUnix, ok, nil
}

// Len returns the number of cached sources.
func (s *Store) Len() int {
	var n int
	_ = s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketContent).Stats().KeyN
		return nil
	})
	return n
}
