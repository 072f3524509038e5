package lifecycle

import (
	"context"

	"ymate/internal/core/errs"
	txPort "ymate/internal/ports/tx"

	"go.uber.org/zap"
)

// Run executes fn in one transaction. Kinded errors pass through; anything
// else is logged with its cause and returned as Internal.
func Run(ctx context.Context, tx txPort.Transactor, logger *zap.Logger, op string, fn func(ctx context.Context) error) error {
	err := tx.WithinTransaction(ctx, fn)
	if err == nil {
		return nil
	}
	if errs.KindOf(err) == errs.KindInternal {
		logger.Error("❌ operation failed", zap.String("op", op), zap.Error(err))
	}
	return errs.Internalize(err)
}
