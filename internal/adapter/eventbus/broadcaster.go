package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/khmm12/reachability-checker/internal/common/logging"
	"github.com/khmm12/reachability-checker/internal/ports"
)

var _ ports.EventPublisher = (*Broadcaster)(nil)

const DefaultBuffer = 64

// Broadcaster fans events out to any number of subscriptions. Status and
// probing events are dropped for subscribers whose buffer is full; stop
// events are always handed over unless the subscriber detaches first.
type Broadcaster struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[*Subscription]struct{}

	dropped atomic.Uint64
	onDrop  func()
}

type Option func(*Broadcaster)

// WithDropHook registers fn to be called for every dropped event.
func WithDropHook(fn func()) Option {
	return func(b *Broadcaster) {
		b.onDrop = fn
	}
}

func NewBroadcaster(logger *slog.Logger, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		logger: logger,
		subs:   make(map[*Subscription]struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

type Subscription struct {
	b      *Broadcaster
	ch     chan ports.Event
	closed chan struct{}
	once   sync.Once
}

func (b *Broadcaster) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	sub := &Subscription{
		b:      b,
		ch:     make(chan ports.Event, buffer),
		closed: make(chan struct{}),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Events is closed once the subscription is closed.
func (s *Subscription) Events() <-chan ports.Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		// Unblocks a pending stop delivery before taking the write lock.
		close(s.closed)

		s.b.mu.Lock()
		delete(s.b.subs, s)
		close(s.ch)
		s.b.mu.Unlock()
	})
}

func (b *Broadcaster) Publish(ctx context.Context, ev ports.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if ev.Kind == ports.EventStop {
			b.deliver(ctx, sub, ev)
			continue
		}

		select {
		case sub.ch <- ev:
		default:
			b.drop(ctx, ev)
		}
	}
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Broadcaster) deliver(ctx context.Context, sub *Subscription, ev ports.Event) {
	select {
	case sub.ch <- ev:
		return
	default:
	}

	select {
	case sub.ch <- ev:
	case <-sub.closed:
	case <-ctx.Done():
		b.drop(ctx, ev)
	}
}

func (b *Broadcaster) drop(ctx context.Context, ev ports.Event) {
	b.dropped.Add(1)

	if b.onDrop != nil {
		b.onDrop()
	}

	b.logger.DebugContext(ctx, "Dropped event for slow subscriber",
		slog.String("kind", ev.Kind.String()),
		logging.Address(ev.Address),
	)
}

// Forward feeds every event of sub into observer until sub is closed.
func Forward(ctx context.Context, sub *Subscription, observer ports.EventObserver) {
	for ev := range sub.Events() {
		observer.Observe(ctx, ev)
	}
}
