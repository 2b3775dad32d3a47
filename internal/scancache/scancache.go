// Package scancache holds assets a user has scanned that are not confirmed
// members of the remote "assigned to me" set. It is a best-effort local
// shadow, never the system of record, and is never synchronized back to the
// remote store.
package scancache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/models"
)

// Cache partitions local assets by user id. Writes are a read-modify-write
// of the whole document, so concurrent processes sharing the same store file
// are last-writer-wins; that limitation is accepted, not worked around.
type Cache struct {
	mu         sync.Mutex
	store      Store
	partitions map[string][]models.LocalAsset
	logger     *zap.Logger
}

// New loads the persisted document. A load failure degrades to an empty
// in-memory cache: the session still works, only durability is lost.
func New(store Store, logger *zap.Logger) *Cache {
	partitions, err := store.Load()
	if err != nil {
		logger.Warn("failed to load scan cache, starting empty", zap.Error(err))
		partitions = map[string][]models.LocalAsset{}
	}

	return &Cache{
		store:      store,
		partitions: partitions,
		logger:     logger,
	}
}

// ListFor returns a copy of the user's partition.
func (c *Cache) ListFor(userID string) []models.LocalAsset {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition := c.partitions[userID]
	out := make([]models.LocalAsset, len(partition))
	copy(out, partition)
	return out
}

// Upsert stores a scanned asset under the user's partition. At most one
// entry exists per serial number: a re-scan overwrites the existing entry in
// place, refreshing ScannedAt, instead of appending. The returned error is a
// LocalPersistenceError when the store failed; the in-memory entry is kept
// either way.
func (c *Cache) Upsert(userID string, asset models.EnrichedAsset, now time.Time) (models.LocalAsset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	local := models.LocalAsset{
		EnrichedAsset: asset,
		IsLocal:       true,
		LocalID:       uuid.NewString(),
		ScannedAt:     now,
	}

	partition := c.partitions[userID]
	replaced := false
	for i, existing := range partition {
		if existing.SerialNumber == asset.SerialNumber {
			local.LocalID = existing.LocalID
			partition[i] = local
			replaced = true
			break
		}
	}
	if !replaced {
		partition = append(partition, local)
	}
	c.partitions[userID] = partition

	return local, c.persist()
}

// Remove deletes the entry with the given local id from the user's
// partition. Removing an unknown id is a no-op.
func (c *Cache) Remove(userID, localID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition := c.partitions[userID]
	filtered := partition[:0]
	for _, entry := range partition {
		if entry.LocalID != localID {
			filtered = append(filtered, entry)
		}
	}
	c.partitions[userID] = filtered

	return c.persist()
}

// Clear drops the user's whole partition.
func (c *Cache) Clear(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.partitions, userID)
	return c.persist()
}

func (c *Cache) persist() error {
	if err := c.store.Save(c.partitions); err != nil {
		c.logger.Warn("scan cache persistence failed", zap.Error(err))
		return &custom_error.LocalPersistenceError{Reason: err}
	}
	return nil
}
