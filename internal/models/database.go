package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// kvBucket holds the string-keyed values of the local show store
var kvBucket = []byte("kv")

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = store.Bolt().Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create kv bucket: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Key-value operations

// Get returns the value stored under key and whether it exists
func (db *Database) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		found bool
	)
	err := db.store.Bolt().View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(kvBucket).Get([]byte(key))
		if data != nil {
			// bbolt memory is only valid inside the transaction
			value = string(data)
			found = true
		}
		return nil
	})
	return value, found, err
}

// Set stores value under key, replacing any previous value
func (db *Database) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), []byte(value))
	})
}

// Remove deletes key. Removing a missing key is not an error.
func (db *Database) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(kvBucket).Delete([]byte(key))
	})
}

// Snapshot operations

// CreateSnapshot stores a new snapshot
func (db *Database) CreateSnapshot(snapshot *ShowSnapshot) error {
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}
	return db.store.Insert(bolthold.NextSequence(), snapshot)
}

// GetLatestSnapshot retrieves the most recent snapshot of a show
func (db *Database) GetLatestSnapshot(tmdbID int) (*ShowSnapshot, error) {
	var snapshots []*ShowSnapshot
	err := db.store.Find(&snapshots,
		bolthold.Where("TMDBID").Eq(tmdbID).Index("TMDBID").
			SortBy("FetchedAt", "ID").Reverse().Limit(1))
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, bolthold.ErrNotFound
	}
	return snapshots[0], nil
}

// GetSnapshotsByTMDBID retrieves every snapshot of a show, oldest first
func (db *Database) GetSnapshotsByTMDBID(tmdbID int) ([]*ShowSnapshot, error) {
	var snapshots []*ShowSnapshot
	err := db.store.Find(&snapshots,
		bolthold.Where("TMDBID").Eq(tmdbID).Index("TMDBID").SortBy("FetchedAt", "ID"))
	return snapshots, err
}

// DeleteSnapshotsByTMDBID deletes all snapshots of a show
func (db *Database) DeleteSnapshotsByTMDBID(tmdbID int) error {
	return db.store.DeleteMatching(&ShowSnapshot{}, bolthold.Where("TMDBID").Eq(tmdbID).Index("TMDBID"))
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, bolthold.ErrNotFound)
}
