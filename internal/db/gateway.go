package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

// FetchMode selects what Execute reads back.
type FetchMode int

const (
	// FetchNone runs the statement and discards any rows.
	FetchNone FetchMode = iota
	// FetchOne scans the first row into dest.
	FetchOne
	// FetchAll scans every row into dest, which must be a slice pointer.
	FetchAll
)

var (
	// ErrPersistence wraps every failed statement. The underlying driver
	// error is wrapped alongside it.
	ErrPersistence = errors.New("persistence failure")
	// ErrNoRows is returned by FetchOne when the query matched nothing.
	ErrNoRows = errors.New("no rows")
)

// Gateway is the single executor for database statements. Writes run in
// their own transaction and are committed on success, rolled back on error.
type Gateway struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewGateway wraps db. A nil logger falls back to slog.Default.
func NewGateway(db *gorm.DB, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{db: db, log: log}
}

// DB returns a gorm session bound to ctx for typed model queries.
func (g *Gateway) DB(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

// Execute runs a parameterised statement. Statements starting with INSERT,
// UPDATE or DELETE are committed; anything else is a plain read.
func (g *Gateway) Execute(ctx context.Context, fetch FetchMode, dest any, query string, args ...any) error {
	run := func(tx *gorm.DB) error {
		switch fetch {
		case FetchNone:
			return tx.Exec(query, args...).Error
		case FetchOne:
			res := tx.Raw(query, args...).Scan(dest)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNoRows
			}
			return nil
		case FetchAll:
			return tx.Raw(query, args...).Scan(dest).Error
		default:
			return fmt.Errorf("unknown fetch mode %d", fetch)
		}
	}

	var err error
	if IsWrite(query) {
		err = g.db.WithContext(ctx).Transaction(run)
	} else {
		err = run(g.db.WithContext(ctx))
	}
	if err == nil || errors.Is(err, ErrNoRows) {
		return err
	}
	return g.Fail(ctx, "execute", err)
}

// Transaction runs fn in a transaction. Errors returned by fn are passed
// through untouched so callers keep their sentinels; a failed commit is
// reported as ErrPersistence.
func (g *Gateway) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var fnErr error
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(tx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return g.Fail(ctx, "commit", err)
	}
	return nil
}

// Fail logs a database error and wraps it with ErrPersistence.
func (g *Gateway) Fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, ErrPersistence) {
		return err
	}
	g.log.ErrorContext(ctx, "database error", "op", op, "err", err)
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Ping checks that the database answers a trivial query.
func (g *Gateway) Ping(ctx context.Context) error {
	var one int
	return g.Execute(ctx, FetchOne, &one, "SELECT 1")
}

// IsWrite reports whether the statement's leading verb mutates data.
func IsWrite(query string) bool {
	verb := strings.ToUpper(strings.TrimSpace(query))
	if i := strings.IndexAny(verb, " \t\r\n("); i >= 0 {
		verb = verb[:i]
	}
	switch verb {
	case "INSERT", "UPDATE", "DELETE":
		return true
	}
	return false
}
