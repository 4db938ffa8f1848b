package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// FromContext wraps ctx without a transaction.
func FromContext(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// DB returns the transaction when set, otherwise fallback.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	if c.Tx != nil {
		return c.Tx.WithContext(c.Context())
	}
	return fallback.WithContext(c.Context())
}

func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
