package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported driver")

// Store is a read-only handle on the exercise database. The grader only ever
// counts rows/documents; it never writes.
type Store interface {
	Count(ctx context.Context, collection string) (int64, error)
	Close(ctx context.Context) error
}

// Dialer describes how to reach the exercise database. Dial makes a single
// attempt; there are no retries.
type Dialer struct {
	Driver   Driver
	DSN      string
	Database string // mongo only; SQL drivers take the database from the DSN
	Timeout  time.Duration
}

// Dial opens a connection and verifies it with a ping so that an unreachable
// server is reported here rather than on the first count.
func (d Dialer) Dial(ctx context.Context) (Store, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	switch d.Driver {
	case DriverMongo:
		s, err := openMongo(ctx, d.dsn("mongodb://localhost:27017"), d.Database, d.Timeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := openSQL(ctx, "pgx", d.dsn("postgres://localhost:5432/grader?sslmode=disable"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := openSQL(ctx, "sqlite", d.dsn("file:grader.db?mode=ro"))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Driver)
	}
}

func (d Dialer) dsn(def string) string {
	if d.DSN == "" {
		return def
	}
	return d.DSN
}
