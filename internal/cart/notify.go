package cart

import (
	"context"

	"go.uber.org/zap"
)

// Notice is a one-way, user-facing warning.
type Notice struct {
	Kind      Kind
	Message   string
	ProductID int64
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// LogNotifier surfaces notices as structured warn lines.
type LogNotifier struct {
	Log *zap.Logger
}

func (l LogNotifier) Notify(_ context.Context, n Notice) {
	if l.Log == nil {
		return
	}
	l.Log.Warn(n.Message,
		zap.String("kind", n.Kind.String()),
		zap.Int64("product_id", n.ProductID),
	)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}
