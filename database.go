package auth

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenDB opens a bun handle over the sqlite shim driver.
func OpenDB(dsn string) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reach database")
	}

	return bun.NewDB(db, sqlitedialect.New()), nil
}

// CreateSchema creates the account table when it does not exist yet. Meant
// for local development and tests; production schemas are managed
// externally.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*Account)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create schema")
	}
	return nil
}
