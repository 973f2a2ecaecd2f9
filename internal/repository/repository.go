package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is the common surface of *sqlx.DB and *sqlx.Tx that the adapters
// need. Repositories resolve it per call through GetExecutor so writes
// join an enclosing transaction transparently.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// contextKey is the context value key type.
type contextKey string

// TransactionContextKey stores the active transaction in the context.
const TransactionContextKey contextKey = "tx"

// GetExecutor returns the transaction from the context when one is
// active, otherwise the base DB handle.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx := ctx.Value(TransactionContextKey); tx != nil {
		if sqlxTx, ok := tx.(*sqlx.Tx); ok {
			return sqlxTx
		}
	}
	return db
}
