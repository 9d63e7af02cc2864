package repository

import (
	"context"

	mongotx "linkuup/pkg/db/mongo"
)

func (r *mongoPlaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	tm := mongotx.NewTransactionManager(r.cfg.Client.Mongo)
	return tm.ExecuteTransaction(ctx, fn)
}
