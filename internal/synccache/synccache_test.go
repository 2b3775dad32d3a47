package synccache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"assetdesk/internal/gateway"
	"assetdesk/pkg/models"
)

// stubGateway serves rows from a mutable in-memory table set and lets tests
// hook the start of List to model slow responses.
type stubGateway struct {
	mu         sync.Mutex
	rows       map[string][]gateway.Row
	beforeList func(table string)
	onChange   map[string]func()
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		rows:     map[string][]gateway.Row{},
		onChange: map[string]func(){},
	}
}

func (g *stubGateway) setRows(table string, rows []gateway.Row) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows[table] = rows
}

func (g *stubGateway) List(_ context.Context, table string) ([]gateway.Row, error) {
	if g.beforeList != nil {
		g.beforeList(table)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]gateway.Row, len(g.rows[table]))
	copy(out, g.rows[table])
	return out, nil
}

func (g *stubGateway) Insert(_ context.Context, table string, row gateway.Row) (gateway.Row, error) {
	return row, nil
}

func (g *stubGateway) Update(_ context.Context, table string, id string, patch gateway.Row) (gateway.Row, error) {
	return patch, nil
}

func (g *stubGateway) Delete(_ context.Context, table string, id string) error {
	return nil
}

func (g *stubGateway) Subscribe(_ context.Context, table string, onChange func()) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange[table] = onChange
	return func() {}, nil
}

func assetRow(id, serial string) gateway.Row {
	return gateway.Row{
		"id":            id,
		"device_type":   "laptop",
		"brand":         "Lenovo",
		"model":         "T14",
		"serial_number": serial,
		"status":        "active",
		"created_at":    "2026-01-01T00:00:00Z",
	}
}

func TestRefreshReplacesAllCollections(t *testing.T) {
	gw := newStubGateway()
	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a1", "SN-1")})
	gw.setRows(gateway.TableNotifications, []gateway.Row{{
		"id": "n1", "severity": "warning", "title": "Warranty", "message": "expiring",
		"read": false, "created_at": "2026-01-02T00:00:00Z",
	}})
	gw.setRows(gateway.TableActivityLog, []gateway.Row{{
		"id": "l1", "action": "create", "details": "asset registered",
		"type": "asset", "timestamp": "2026-01-02T00:00:00Z",
	}})

	cache := New(gw, zap.NewNop())
	require.NoError(t, cache.Refresh(context.Background()))

	require.Len(t, cache.Assets(), 1)
	assert.Equal(t, "a1", cache.Assets()[0].ID)
	assert.Len(t, cache.Notifications(), 1)
	assert.Len(t, cache.Activity(), 1)
	assert.False(t, cache.Loading())

	// A later refresh replaces, never appends.
	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a2", "SN-2")})
	require.NoError(t, cache.Refresh(context.Background()))
	require.Len(t, cache.Assets(), 1)
	assert.Equal(t, "a2", cache.Assets()[0].ID)
}

func TestRefreshSkipsMalformedRows(t *testing.T) {
	gw := newStubGateway()
	gw.setRows(gateway.TableAssets, []gateway.Row{
		assetRow("a1", "SN-1"),
		{"brand": "no id here"},
		assetRow("a2", "SN-2"),
	})

	cache := New(gw, zap.NewNop())
	require.NoError(t, cache.Refresh(context.Background()))

	assert.Len(t, cache.Assets(), 2)
}

func TestConcurrentRefreshCoalescesToLatestState(t *testing.T) {
	gw := newStubGateway()
	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a1", "SN-1")})

	blocked := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gw.beforeList = func(table string) {
		once.Do(func() {
			blocked <- struct{}{}
			<-release
		})
	}

	cache := New(gw, zap.NewNop())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- cache.Refresh(context.Background())
	}()
	<-blocked

	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a2", "SN-2")})

	// Second refresh while the first is mid-flight: it coalesces into a
	// queued pass and returns only once that pass has landed, so the caller
	// never observes success against a stale mirror.
	secondDone := make(chan error, 1)
	secondSaw := make(chan []models.EnrichedAsset, 1)
	go func() {
		err := cache.Refresh(context.Background())
		secondSaw <- cache.Assets()
		secondDone <- err
	}()

	close(release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	seen := <-secondSaw
	require.Len(t, seen, 1)
	assert.Equal(t, "a2", seen[0].ID)

	assets := cache.Assets()
	require.Len(t, assets, 1)
	assert.Equal(t, "a2", assets[0].ID)
}

func TestDisposeDiscardsInFlightRefresh(t *testing.T) {
	gw := newStubGateway()
	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a1", "SN-1")})

	blocked := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gw.beforeList = func(table string) {
		once.Do(func() {
			blocked <- struct{}{}
			<-release
		})
	}

	cache := New(gw, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- cache.Refresh(context.Background())
	}()
	<-blocked

	cache.Dispose()
	close(release)
	require.NoError(t, <-done)

	// The fetched snapshot was dropped, not written into a disposed cache.
	assert.Empty(t, cache.Assets())
}

func TestChangeNotificationTriggersRelist(t *testing.T) {
	gw := newStubGateway()
	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a1", "SN-1")})

	cache := New(gw, zap.NewNop())
	require.NoError(t, cache.Start(context.Background()))
	defer cache.Dispose()

	gw.setRows(gateway.TableAssets, []gateway.Row{assetRow("a1", "SN-1"), assetRow("a2", "SN-2")})
	gw.onChange[gateway.TableAssets]()

	require.Eventually(t, func() bool {
		return len(cache.Assets()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestActivityReadIsCappedToNewestEntries(t *testing.T) {
	gw := newStubGateway()
	total := activityWindow + 10
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Serve even entries first, then odd: storage order carries no meaning.
	rows := make([]gateway.Row, 0, total)
	for _, start := range []int{0, 1} {
		for i := start; i < total; i += 2 {
			rows = append(rows, gateway.Row{
				"id": fmt.Sprintf("l%03d", i), "action": "update",
				"details": "x", "type": "asset",
				"timestamp": base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			})
		}
	}
	gw.setRows(gateway.TableActivityLog, rows)

	cache := New(gw, zap.NewNop())
	require.NoError(t, cache.Refresh(context.Background()))

	entries := cache.Activity()
	require.Len(t, entries, activityWindow)

	// Newest first, and the window drops exactly the oldest entries.
	assert.Equal(t, fmt.Sprintf("l%03d", total-1), entries[0].ID)
	assert.Equal(t, fmt.Sprintf("l%03d", total-activityWindow), entries[len(entries)-1].ID)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}
