package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const ratesKeyPrefix = "rates:"

// BadgerRateStore caches rate series in BadgerDB using per-entry TTLs
type BadgerRateStore struct {
	db *badger.DB
}

// NewBadgerRateStore creates a new BadgerDB rate store
func NewBadgerRateStore(db *badger.DB) *BadgerRateStore {
	return &BadgerRateStore{db: db}
}

// OpenBadgerRateStore opens (or creates) a BadgerDB database at path
func OpenBadgerRateStore(path string) (*BadgerRateStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewBadgerRateStore(db), nil
}

// Put saves a rate series that expires after ttl
func (s *BadgerRateStore) Put(ctx context.Context, key string, rates []entity.RateWithDiff, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(ratesKeyPrefix+key), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to store rates: %w", err)
	}

	return nil
}

// Get retrieves a rate series that has not expired yet
func (s *BadgerRateStore) Get(ctx context.Context, key string) ([]entity.RateWithDiff, bool, error) {
	var rates []entity.RateWithDiff

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ratesKeyPrefix + key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rates)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to retrieve rates: %w", err)
	}

	return rates, true, nil
}

// Close closes the underlying database
func (s *BadgerRateStore) Close() error {
	return s.db.Close()
}
