package testutil

import (
	"context"

	"github.com/flexprice/productcatalog/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = context.WithValue(ctx, types.CtxStage, types.StageCODE)
	return ctx
}
