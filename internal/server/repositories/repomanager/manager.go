// Package repomanager vends the dev bridge repositories for a storage
// backend. Repositories are bound per call to a DBTX so that services can
// run several of them inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/buckets"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/files"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/keys"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Keys(db dbx.DBTX) keys.Repository
	Buckets(db dbx.DBTX) buckets.Repository
	Files(db dbx.DBTX) files.Repository
}
