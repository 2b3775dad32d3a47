package synccache

import "assetdesk/pkg/models"

// Read accessors return copies so renders never observe a mid-merge slice.

func (c *Cache) Assets() []models.EnrichedAsset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySlice(c.snap.assets)
}

func (c *Cache) Requests() []models.AssetRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySlice(c.snap.requests)
}

func (c *Cache) Assignments() []models.Assignment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySlice(c.snap.assignments)
}

func (c *Cache) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySlice(c.snap.notifications)
}

// Activity returns the newest mirrored log entries, capped to the bounded
// recent window. The mirror is kept sorted newest-first on refresh.
func (c *Cache) Activity() []models.ActivityEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := copySlice(c.snap.activity)
	if len(entries) > activityWindow {
		entries = entries[:activityWindow]
	}
	return entries
}

func (c *Cache) AssetByID(id string) (models.EnrichedAsset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, asset := range c.snap.assets {
		if asset.ID == id {
			return asset, true
		}
	}
	return models.EnrichedAsset{}, false
}

func (c *Cache) AssetByQRCode(code string) (models.EnrichedAsset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, asset := range c.snap.assets {
		if asset.QRCode == code {
			return asset, true
		}
	}
	return models.EnrichedAsset{}, false
}

func (c *Cache) AssetsAssignedTo(userID string) []models.EnrichedAsset {
	c.mu.Lock()
	defer c.mu.Unlock()

	var assigned []models.EnrichedAsset
	for _, asset := range c.snap.assets {
		if asset.AssignedTo != nil && *asset.AssignedTo == userID {
			assigned = append(assigned, asset)
		}
	}
	return assigned
}

// Merge helpers fold a single gateway-acknowledged row into the mirror.
// They are only called after the remote store confirmed the write.

func (c *Cache) PrependAsset(asset models.EnrichedAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.snap.assets = append([]models.EnrichedAsset{asset}, c.snap.assets...)
}

func (c *Cache) ReplaceAsset(asset models.EnrichedAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	for i, existing := range c.snap.assets {
		if existing.ID == asset.ID {
			c.snap.assets[i] = asset
			return
		}
	}
}

func (c *Cache) RemoveAsset(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	for i, existing := range c.snap.assets {
		if existing.ID == id {
			c.snap.assets = append(c.snap.assets[:i], c.snap.assets[i+1:]...)
			return
		}
	}
}

func (c *Cache) PrependAssignment(assignment models.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.snap.assignments = append([]models.Assignment{assignment}, c.snap.assignments...)
}

func (c *Cache) PrependActivity(entry models.ActivityEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.snap.activity = append([]models.ActivityEntry{entry}, c.snap.activity...)
}

func (c *Cache) ReplaceNotification(notification models.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	for i, existing := range c.snap.notifications {
		if existing.ID == notification.ID {
			c.snap.notifications[i] = notification
			return
		}
	}
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
