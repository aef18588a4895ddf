// Package bolt keeps the student snapshot under a single key of a bbolt bucket.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"studentbook/internal/models"
	"studentbook/internal/repository"
	"studentbook/internal/repository/snapshot"
)

var (
	bucketName  = []byte("Students")
	snapshotKey = []byte("snapshot")
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		if errors.Is(err, bbolt.ErrInvalid) || errors.Is(err, bbolt.ErrVersionMismatch) || errors.Is(err, bbolt.ErrChecksum) {
			return nil, fmt.Errorf("%w: open %s: %w", repository.ErrDeserialization, path, err)
		}
		return nil, fmt.Errorf("%w: open %s: %w", repository.ErrStoreIO, path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create bucket: %w", repository.ErrStoreIO, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Load(_ context.Context) ([]models.Student, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}
		// bbolt values are only valid inside the transaction.
		if v := b.Get(snapshotKey); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreIO, err)
	}
	return snapshot.Decode(data)
}

func (s *Store) Save(_ context.Context, students []models.Student) error {
	data, err := snapshot.Encode(students)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrStoreIO, err)
	}
	return nil
}
