// Package gateway is the thin boundary to the hosted relational store. The
// rest of the system depends on the Gateway interface only; the Postgres
// implementation lives here as supporting infrastructure.
package gateway

import (
	"context"

	"github.com/doug-martin/goqu/v9"
)

const (
	TableAssets        = "assets"
	TableAssetRequests = "asset_requests"
	TableAssignments   = "asset_assignments"
	TableNotifications = "notifications"
	TableActivityLog   = "activity_log"
)

// Row is a flat record keyed by column name. Timestamps travel as ISO-8601
// strings, monetary values as plain non-negative numbers.
type Row = goqu.Record

// Gateway exposes row-level CRUD plus a change-notification subscription.
// Enumerated columns are validated server-side; a rejection surfaces as an
// error and is never coerced client-side. Subscribe fires at-least-once with
// no payload: a notification means "something changed, re-list".
type Gateway interface {
	List(ctx context.Context, table string) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table string, id string, patch Row) (Row, error)
	Delete(ctx context.Context, table string, id string) error
	Subscribe(ctx context.Context, table string, onChange func()) (cancel func(), err error)
}
