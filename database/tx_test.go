package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubQueryer is neither *sql.DB nor *sql.Tx, mimicking an already-open
// transaction scope owned by a caller.
type stubQueryer struct{}

func (stubQueryer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, nil
}
func (stubQueryer) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, nil
}
func (stubQueryer) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func TestInTxJoinsExistingScope(t *testing.T) {
	scope := stubQueryer{}

	var got Queryer
	err := InTx(context.Background(), scope, func(q Queryer) error {
		got = q
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, scope, got, "existing scope must be reused, not replaced")
}

func TestInTxPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")

	err := InTx(context.Background(), stubQueryer{}, func(q Queryer) error {
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
}
