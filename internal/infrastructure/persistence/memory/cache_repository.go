// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/platewise/v1/internal/ports/outbound"
)

// ErrKeyNotFound is returned when a key is missing or expired
var ErrKeyNotFound = errors.New("key not found")

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() outbound.CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
	}

	// Start cleanup goroutine
	go repo.cleanup()

	return repo
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || time.Now().After(item.ExpiresAt) {
		return nil, ErrKeyNotFound
	}

	return item.Value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	r.data[key] = CacheItem{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[key]
	if !exists || time.Now().After(item.ExpiresAt) {
		return false, nil
	}

	return true, nil
}

// Increment increments a counter
func (r *CacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var value int64 = 1
	item, exists := r.data[key]
	if exists && time.Now().Before(item.ExpiresAt) && len(item.Value) == 8 {
		value = int64(binary.BigEndian.Uint64(item.Value)) + 1
	}

	valueBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(valueBytes, uint64(value))

	expiresAt := time.Now().Add(time.Hour)
	if exists && time.Now().Before(item.ExpiresAt) {
		expiresAt = item.ExpiresAt
	}

	r.data[key] = CacheItem{
		Value:     valueBytes,
		ExpiresAt: expiresAt,
	}

	return value, nil
}

// cleanup removes expired items
func (r *CacheRepository) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mutex.Lock()
		now := time.Now()
		for key, item := range r.data {
			if now.After(item.ExpiresAt) {
				delete(r.data, key)
			}
		}
		r.mutex.Unlock()
	}
}
