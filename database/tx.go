package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories take a Queryer so the same method works standalone or
// inside a transaction opened by the caller.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InTx runs fn in a transaction. If q already is a transaction it is
// joined rather than nested, so callers can compose transactional units
// without caring whether a scope is already open.
func InTx(ctx context.Context, q Queryer, fn func(q Queryer) error) error {
	db, ok := q.(*sql.DB)
	if !ok {
		return fn(q)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Transaction rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
