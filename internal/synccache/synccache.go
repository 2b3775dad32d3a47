// Package synccache mirrors the remote collections in memory. It is a
// read-through copy, never the authority: only gateway-acknowledged rows are
// ever merged into it.
package synccache

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"assetdesk/internal/enrich"
	"assetdesk/internal/gateway"
	"assetdesk/pkg/models"
)

// activityWindow caps how many recent activity entries reads return.
const activityWindow = 50

type snapshot struct {
	assets        []models.EnrichedAsset
	requests      []models.AssetRequest
	assignments   []models.Assignment
	notifications []models.Notification
	activity      []models.ActivityEntry
}

// Cache holds the current remote mirror plus a loading flag. It is built
// once per session, started, and disposed when its consumer goes away.
type Cache struct {
	gw     gateway.Gateway
	logger *zap.Logger

	mu         sync.Mutex
	snap       snapshot
	loading    bool
	refreshing bool
	pending    bool
	disposed   bool
	waiters    []chan error
	cancels    []func()
}

func New(gw gateway.Gateway, logger *zap.Logger) *Cache {
	return &Cache{gw: gw, logger: logger}
}

// Start performs the initial refresh and subscribes to change notifications
// on every mirrored table. A notification carries no trustworthy delta, so
// the reaction is always a full re-list.
func (c *Cache) Start(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}

	tables := []string{
		gateway.TableAssets,
		gateway.TableAssetRequests,
		gateway.TableAssignments,
		gateway.TableNotifications,
		gateway.TableActivityLog,
	}
	for _, table := range tables {
		table := table
		cancel, err := c.gw.Subscribe(ctx, table, func() {
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn("refresh after change notification failed",
					zap.String("table", table), zap.Error(err))
			}
		})
		if err != nil {
			c.Dispose()
			return err
		}
		c.mu.Lock()
		c.cancels = append(c.cancels, cancel)
		c.mu.Unlock()
	}

	return nil
}

// Refresh re-lists every collection and atomically replaces the mirror.
// Concurrent calls coalesce: a refresh issued while one is in flight queues
// exactly one more full pass and waits for it, so no caller returns before a
// pass that started after its call has landed.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	if c.refreshing {
		c.pending = true
		waiter := make(chan error, 1)
		c.waiters = append(c.waiters, waiter)
		c.mu.Unlock()
		return <-waiter
	}
	c.refreshing = true
	c.loading = true
	c.mu.Unlock()

	for {
		snap, err := c.fetchAll(ctx)

		c.mu.Lock()
		if err == nil && !c.disposed {
			c.snap = snap
		}
		if c.pending && !c.disposed {
			c.pending = false
			c.mu.Unlock()
			continue
		}
		waiters := c.waiters
		c.waiters = nil
		c.refreshing = false
		c.loading = false
		c.mu.Unlock()

		for _, waiter := range waiters {
			waiter <- err
		}
		return err
	}
}

// Dispose detaches the cache: subscriptions are cancelled and any in-flight
// refresh result is discarded instead of being written into a mirror that
// outlived its consumer.
func (c *Cache) Dispose() {
	c.mu.Lock()
	c.disposed = true
	cancels := c.cancels
	c.cancels = nil
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// fetchAll lists every collection outside the lock. A malformed row is
// logged and skipped so one bad record cannot take down the whole transform;
// a failed list aborts the pass so no partial replacement is ever observed.
func (c *Cache) fetchAll(ctx context.Context) (snapshot, error) {
	var snap snapshot

	assetRows, err := c.gw.List(ctx, gateway.TableAssets)
	if err != nil {
		return snapshot{}, err
	}
	for _, row := range assetRows {
		asset, err := enrich.AssetFromRow(row)
		if err != nil {
			c.logger.Warn("skipping malformed asset row", zap.Error(err))
			continue
		}
		snap.assets = append(snap.assets, asset)
	}

	requestRows, err := c.gw.List(ctx, gateway.TableAssetRequests)
	if err != nil {
		return snapshot{}, err
	}
	for _, row := range requestRows {
		request, err := enrich.RequestFromRow(row)
		if err != nil {
			c.logger.Warn("skipping malformed asset request row", zap.Error(err))
			continue
		}
		snap.requests = append(snap.requests, request)
	}

	assignmentRows, err := c.gw.List(ctx, gateway.TableAssignments)
	if err != nil {
		return snapshot{}, err
	}
	for _, row := range assignmentRows {
		assignment, err := enrich.AssignmentFromRow(row)
		if err != nil {
			c.logger.Warn("skipping malformed assignment row", zap.Error(err))
			continue
		}
		snap.assignments = append(snap.assignments, assignment)
	}

	notificationRows, err := c.gw.List(ctx, gateway.TableNotifications)
	if err != nil {
		return snapshot{}, err
	}
	for _, row := range notificationRows {
		notification, err := enrich.NotificationFromRow(row)
		if err != nil {
			c.logger.Warn("skipping malformed notification row", zap.Error(err))
			continue
		}
		snap.notifications = append(snap.notifications, notification)
	}

	activityRows, err := c.gw.List(ctx, gateway.TableActivityLog)
	if err != nil {
		return snapshot{}, err
	}
	for _, row := range activityRows {
		entry, err := enrich.ActivityFromRow(row)
		if err != nil {
			c.logger.Warn("skipping malformed activity row", zap.Error(err))
			continue
		}
		snap.activity = append(snap.activity, entry)
	}
	// Row order from a plain re-list is not trustworthy; the capped read
	// window must hold the newest entries.
	sort.SliceStable(snap.activity, func(i, j int) bool {
		return snap.activity[i].Timestamp.After(snap.activity[j].Timestamp)
	})

	return snap, nil
}
