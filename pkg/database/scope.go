package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoScope is returned when a repository runs without a scope in context.
var ErrNoScope = errors.New("no database scope in context")

type contextKey string

const (
	// ScopeKey is the context key for storing the request-scoped database connection.
	ScopeKey contextKey = "dbScope"
)

// Querier is the subset of pgx shared by pooled connections and transactions.
// Repositories only ever talk to a Querier, so the same code runs inside or
// outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Scope is one pooled connection held for the duration of a request,
// optionally with an open transaction on it.
type Scope struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

// Querier returns the open transaction when there is one, otherwise the connection.
func (s *Scope) Querier() Querier {
	if s.tx != nil {
		return s.tx
	}
	return s.conn
}

// InTx reports whether the scope carries an open transaction.
func (s *Scope) InTx() bool {
	return s.tx != nil
}

// Close releases the connection back to the pool.
// Closing a transaction scope is a no-op; the owning scope releases the connection.
func (s *Scope) Close() {
	if s.conn == nil || s.tx != nil {
		return
	}
	s.conn.Release()
	s.conn = nil
}

// GetScope retrieves the database scope from context.
func GetScope(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(ScopeKey).(*Scope)
	return scope, ok
}

// SetScope stores the database scope in context.
func SetScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, ScopeKey, scope)
}

// GetQuerier returns the querier for the scope stored in ctx.
func GetQuerier(ctx context.Context) (Querier, error) {
	scope, ok := GetScope(ctx)
	if !ok || scope == nil {
		return nil, ErrNoScope
	}
	return scope.Querier(), nil
}

// Transactor runs a unit of work inside a single database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type scopeTransactor struct{}

// NewTransactor returns a Transactor that opens transactions on the scope in context.
// Nested calls join the outer transaction.
func NewTransactor() Transactor {
	return scopeTransactor{}
}

func (scopeTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	scope, ok := GetScope(ctx)
	if !ok || scope == nil {
		return ErrNoScope
	}
	if scope.InTx() {
		return fn(ctx)
	}

	tx, err := scope.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(SetScope(ctx, &Scope{conn: scope.conn, tx: tx})); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ Transactor = scopeTransactor{}
