// Package repomanager hands out repositories bound to a specific database
// handle, so services can run the same repository code on a plain *sql.DB
// or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmatveev/authd/internal/dbx"
	"github.com/dmatveev/authd/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
