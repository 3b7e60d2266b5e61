package resolver

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/gqlschema"
	"github.com/standardbeagle/BifrostQL-sub002/internal/cache"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
)

// StoredProcExecutor is implemented by a host-supplied driver adapter that
// knows how to actually invoke a stored procedure. schema.StoredProcedure
// only models discovery and typing (spec §1's "stored-procedure execution
// runtime... delegated to a database-driver adapter").
type StoredProcExecutor interface {
	Call(ctx context.Context, sp *schema.StoredProcedure, args map[string]interface{}) (resultSets [][]map[string]interface{}, outputs map[string]interface{}, affectedRows int64, err error)
}

// Resolver implements gqlschema.Executor against a live *sql.DB, binding
// together the schema.Model, the transform chain, translator, and the tree
// sync engine (spec §6's "resolver.Resolver binds a built schema to
// transform+translator+treesync").
type Resolver struct {
	Model   *schema.Model
	Dialect dialect.Dialect
	DB      *sql.DB
	Logger  *zap.Logger

	// SQLCache is a size-bounded string cache created by New, grounded on
	// core/cache.go's compiled-query cache. No Resolver method reads or
	// writes it; every statement is rendered on each call.
	SQLCache *cache.Cache[string, string]

	// StoredProcs is consulted by CallStoredProcedure; nil means no stored
	// procedure on the model can actually be invoked (discovery-only mode).
	StoredProcs StoredProcExecutor
}

// New builds a Resolver. cacheSize bounds the SQL cache entry count.
func New(model *schema.Model, d dialect.Dialect, db *sql.DB, logger *zap.Logger, cacheSize int) (*Resolver, error) {
	c, err := cache.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{Model: model, Dialect: d, DB: db, Logger: logger, SQLCache: c}, nil
}

type userContextKey int

const userContextContextKey userContextKey = iota

// WithUserContext attaches the request's transform.UserContext (claims and
// roles decoded by the host from a JWT or session) to ctx, read back via
// userContextFrom by the query, aggregate, link and mutation methods;
// CallStoredProcedure does not read it.
func WithUserContext(ctx context.Context, uc transform.UserContext) context.Context {
	return context.WithValue(ctx, userContextContextKey, uc)
}

func userContextFrom(ctx context.Context) transform.UserContext {
	uc, _ := ctx.Value(userContextContextKey).(transform.UserContext)
	return uc
}

var _ gqlschema.Executor = (*Resolver)(nil)
