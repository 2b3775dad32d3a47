package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
	"github.com/lib/pq"
	"go.uber.org/zap"

	custom_error "assetdesk/pkg/errors"
)

// PostgresGateway implements Gateway on top of a Postgres connection. Change
// notifications ride on LISTEN/NOTIFY channels raised by per-table triggers
// (see migrations).
type PostgresGateway struct {
	db     *sql.DB
	goquDB *goqu.Database
	dsn    string
	logger *zap.Logger
}

func NewPostgresGateway(db *sql.DB, dsn string, logger *zap.Logger) *PostgresGateway {
	return &PostgresGateway{
		db:     db,
		goquDB: goqu.New("postgres", db),
		dsn:    dsn,
		logger: logger,
	}
}

func (g *PostgresGateway) List(ctx context.Context, table string) ([]Row, error) {
	query, args, err := g.goquDB.From(table).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query for %s: %w", table, err)
	}

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQ("list", table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPQ("list", table, err)
	}

	return out, nil
}

func (g *PostgresGateway) Insert(ctx context.Context, table string, row Row) (Row, error) {
	query, args, err := g.goquDB.Insert(table).Rows(row).Returning(goqu.Star()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query for %s: %w", table, err)
	}

	return g.queryOne(ctx, "insert", table, query, args)
}

func (g *PostgresGateway) Update(ctx context.Context, table string, id string, patch Row) (Row, error) {
	query, args, err := g.goquDB.Update(table).
		Set(patch).
		Where(goqu.Ex{"id": id}).
		Returning(goqu.Star()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query for %s: %w", table, err)
	}

	return g.queryOne(ctx, "update", table, query, args)
}

func (g *PostgresGateway) Delete(ctx context.Context, table string, id string) error {
	query, args, err := g.goquDB.Delete(table).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build delete query for %s: %w", table, err)
	}

	result, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapPQ("delete", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapPQ("delete", table, err)
	}
	if affected == 0 {
		return &custom_error.RemoteWriteError{Op: "delete", Table: table, Message: "no row with id " + id}
	}

	return nil
}

// Subscribe listens on the table's notification channel. Delivery is
// at-least-once and carries no usable payload; callers must re-list.
func (g *PostgresGateway) Subscribe(ctx context.Context, table string, onChange func()) (func(), error) {
	listener := pq.NewListener(g.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			g.logger.Warn("listener event error", zap.String("table", table), zap.Error(err))
		}
	})

	channel := table + "_changed"
	if err := listener.Listen(channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
	}

	var closeOnce sync.Once
	closeListener := func() {
		closeOnce.Do(func() {
			if err := listener.Close(); err != nil {
				g.logger.Warn("failed to close listener", zap.String("table", table), zap.Error(err))
			}
		})
	}

	done := make(chan struct{})
	go watchNotifications(ctx, done, listener.Notify, onChange, closeListener)

	cancel := func() {
		close(done)
		closeListener()
	}
	return cancel, nil
}

// watchNotifications forwards notifications until the subscription is
// cancelled. Context cancellation closes the listener as well, so its
// connection cannot outlive the context it was opened under.
func watchNotifications(ctx context.Context, done <-chan struct{}, notify <-chan *pq.Notification, onChange func(), closeListener func()) {
	for {
		select {
		case <-ctx.Done():
			closeListener()
			return
		case <-done:
			return
		case _, ok := <-notify:
			if !ok {
				return
			}
			onChange()
		}
	}
}

func (g *PostgresGateway) queryOne(ctx context.Context, op, table, query string, args []interface{}) (Row, error) {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQ(op, table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, wrapPQ(op, table, err)
		}
		return nil, &custom_error.RemoteWriteError{Op: op, Table: table, Message: "no row returned"}
	}

	record, err := scanRow(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
	}
	return record, nil
}

// scanRow reads the current result row into a flat Row, normalizing driver
// values to the gateway contract (timestamps as ISO-8601 strings).
func scanRow(rows *sql.Rows) (Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	record := make(Row, len(columns))
	for i, column := range columns {
		record[column] = normalizeValue(values[i])
	}
	return record, nil
}

func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

func wrapPQ(op, table string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return custom_error.WrapDBError(op, table, pqErr.Message, string(pqErr.Code))
	}
	return &custom_error.RemoteWriteError{Op: op, Table: table, Message: err.Error()}
}
