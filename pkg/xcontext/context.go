package xcontext

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/dayflow-labs/backend/config"
	"github.com/dayflow-labs/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey   struct{}
	loggerKey    struct{}
	dbKey        struct{}
	txKey        struct{}
	userIDKey    struct{}
	snowflakeKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("configs are not setup in context")
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("logger is not setup in context")
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handler. If the context is inside a
// transaction, the transaction is returned instead of the root handler, so
// every repository call under WithDBTransaction joins that transaction.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !tx.done {
		return tx.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("db is not setup in context")
	}

	return db
}

type dbTransaction struct {
	tx        *gorm.DB
	savepoint string
	done      bool
}

// WithDBTransaction begins a database transaction and stores it in the
// returned context. If the context already carries a live transaction, the new
// one joins it through a savepoint, so an inner commit or rollback never ends
// the outer transaction.
func WithDBTransaction(ctx context.Context) context.Context {
	if outer, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !outer.done {
		savepoint := fmt.Sprintf("sp_%p", outer)
		outer.tx.SavePoint(savepoint)
		return context.WithValue(ctx, txKey{}, &dbTransaction{
			tx:        outer.tx,
			savepoint: savepoint,
		})
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("db is not setup in context")
	}

	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: db.Begin()})
}

// WithCommitDBTransaction commits the transaction which the context carries.
// It is a no-op if no transaction exists or it already finished.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	tx, ok := ctx.Value(txKey{}).(*dbTransaction)
	if !ok || tx.done {
		return ctx
	}

	if tx.savepoint == "" {
		tx.tx.Commit()
	}

	tx.done = true
	return ctx
}

// WithRollbackDBTransaction rollbacks the transaction which the context
// carries. It is a no-op if no transaction exists or it already finished, so
// it is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	tx, ok := ctx.Value(txKey{}).(*dbTransaction)
	if !ok || tx.done {
		return ctx
	}

	if tx.savepoint == "" {
		tx.tx.Rollback()
	} else {
		tx.tx.RollbackTo(tx.savepoint)
	}

	tx.done = true
	return ctx
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node, ok := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	if !ok {
		panic("snowflake node is not setup in context")
	}

	return node
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}
