// Package repomanager wires repository constructors to a database handle
// and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ksolovey/modacart/internal/dbx"
	"github.com/ksolovey/modacart/internal/server/repositories/cartitems"
	"github.com/ksolovey/modacart/internal/server/repositories/orders"
	"github.com/ksolovey/modacart/internal/server/repositories/products"
	"github.com/ksolovey/modacart/internal/server/repositories/rankings"
	"github.com/ksolovey/modacart/internal/server/repositories/refreshtokens"
	"github.com/ksolovey/modacart/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repositories inside one transaction by passing
// the same tx handle to each.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Products(db dbx.DBTX) products.Repository
	CartItems(db dbx.DBTX) cartitems.Repository
	Orders(db dbx.DBTX) orders.Repository
	Rankings(db dbx.DBTX) rankings.Repository
}
