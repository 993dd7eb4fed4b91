package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs fn as one unit. Implementations that cannot provide atomicity
// just call fn.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}

type NoTx struct{}

func (NoTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (NoTx) Atomic() bool { return false }

// MongoTx runs fn inside a multi-document transaction. Requires a replica set
// or sharded cluster.
type MongoTx struct {
	Client *mongo.Client
}

func (t MongoTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.Client.StartSession()
	if err != nil {
		return Unavailable("start session", err)
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (MongoTx) Atomic() bool { return true }
