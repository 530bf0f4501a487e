package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/rocketshoes/cart-service/internal/metrics"
	"github.com/fjod/rocketshoes/cart-service/internal/notify"
	"github.com/fjod/rocketshoes/cart-service/internal/store"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute

	loadTimeout = 10 * time.Second
)

type RegistryOptions struct {
	Store     store.Store
	Inventory Inventory
	Notifier  notify.Notifier
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
	// MaxSessions caps how many carts stay loaded; the least recently used
	// one is dropped first.
	MaxSessions int
	// IdleTTL drops a cart that has not been used for this long.
	IdleTTL time.Duration
}

// Registry hands out one cart per session, loading it from the session's
// slice of the store on first use. Loaded carts are a cache over the store:
// an evicted session is simply loaded again on its next request.
type Registry struct {
	opts RegistryOptions

	sessions *expirable.LRU[string, *Notifying]
	loads    singleflight.Group // one Load per session id
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Notifier == nil {
		opts.Notifier = notify.Multi()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	return &Registry{
		opts:     opts,
		sessions: expirable.NewLRU[string, *Notifying](opts.MaxSessions, nil, opts.IdleTTL),
	}
}

func SessionNamespace(sessionID string) string {
	return fmt.Sprintf("session:%s:", sessionID)
}

func (r *Registry) Session(ctx context.Context, sessionID string) (*Notifying, error) {
	if n, ok := r.sessions.Get(sessionID); ok {
		// re-adding restarts the idle clock
		r.sessions.Add(sessionID, n)
		return n, nil
	}

	// The load is shared by every caller waiting on this session, so it must
	// not end when the first of them goes away.
	shared := context.WithoutCancel(ctx)
	ch := r.loads.DoChan(sessionID, func() (any, error) {
		if existing, ok := r.sessions.Get(sessionID); ok {
			return existing, nil
		}

		loadCtx, cancel := context.WithTimeout(shared, loadTimeout)
		defer cancel()

		st := store.NewScoped(r.opts.Store, SessionNamespace(sessionID))
		m, err := Load(loadCtx, st, r.opts.Inventory, r.opts.Logger)
		if err != nil {
			return nil, err
		}
		created := NewNotifying(m, r.opts.Notifier, r.opts.Metrics, r.opts.Logger)
		r.sessions.Add(sessionID, created)
		return created, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load session: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Notifying), nil
	}
}

// Len reports how many sessions are loaded.
func (r *Registry) Len() int {
	return r.sessions.Len()
}
