package cart

import (
	"context"

	"github.com/fjod/rocketshoes/cart-service/internal/domain"
	"github.com/fjod/rocketshoes/cart-service/internal/metrics"
	"github.com/fjod/rocketshoes/cart-service/internal/notify"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/rs/zerolog"
)

// Notifying is the caller-facing cart: each failed operation is reported to
// the notifier exactly once and then returned unchanged.
type Notifying struct {
	manager  *Manager
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewNotifying(m *Manager, n notify.Notifier, mt *metrics.Metrics, log *logger.Logger) *Notifying {
	return &Notifying{manager: m, notifier: n, metrics: mt, log: log}
}

func (n *Notifying) Cart() domain.Cart {
	return n.manager.Cart()
}

func (n *Notifying) AddProduct(ctx context.Context, productID int64) error {
	return n.report(ctx, OpAdd, n.manager.AddProduct(ctx, productID))
}

func (n *Notifying) RemoveProduct(ctx context.Context, productID int64) error {
	return n.report(ctx, OpRemove, n.manager.RemoveProduct(ctx, productID))
}

func (n *Notifying) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		n.metrics.ObserveOperation(string(OpUpdate), metrics.OutcomeNoop)
		return nil
	}
	return n.report(ctx, OpUpdate, n.manager.UpdateProductAmount(ctx, productID, amount))
}

func (n *Notifying) report(ctx context.Context, op Op, err error) error {
	if err == nil {
		n.metrics.ObserveOperation(string(op), metrics.OutcomeSuccess)
		return nil
	}

	kind, _ := KindOf(err)
	n.metrics.ObserveOperation(string(op), kind.String())

	log := n.log.From(ctx)
	var event *zerolog.Event
	if kind == KindTransient {
		event = log.Error()
	} else {
		event = log.Warn()
	}
	event.Err(err).Str("op", string(op)).Str("kind", kind.String()).Msg("cart operation failed")

	if msg := Message(err); msg != "" {
		n.notifier.Notify(ctx, msg)
	}
	return err
}
