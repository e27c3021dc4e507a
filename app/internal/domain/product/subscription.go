package product

import (
	"context"
	"sync"
)

// Snapshot is the complete collection at one point in time.
type Snapshot []*Product

// Subscription is a handle on a running feed. Snapshots are delivered
// latest-wins: a consumer that falls behind only sees the newest one.
type Subscription struct {
	snapshots chan Snapshot
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
	err       error
}

// Watch runs fn in its own goroutine until ctx is cancelled, the returned
// subscription is unsubscribed, or fn returns.
func Watch(ctx context.Context, fn func(ctx context.Context, emit func(Snapshot)) error) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		snapshots: make(chan Snapshot, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		err := fn(ctx, s.emit)
		if err != nil && ctx.Err() == nil {
			s.err = err
		} else if err == nil && ctx.Err() == nil {
			s.err = ErrSubscriptionEnded
		}
		close(s.done)
	}()

	return s
}

func (s *Subscription) emit(snap Snapshot) {
	for {
		select {
		case s.snapshots <- snap:
			return
		default:
		}
		select {
		case <-s.snapshots:
		default:
		}
	}
}

func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Done is closed once the feed has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err reports why the feed stopped. It is nil after Unsubscribe and only
// meaningful once Done is closed.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Unsubscribe stops the feed and waits for it to exit.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

// Relist emits the current listing, then a fresh listing every time wait
// returns. It is the loop shared by notification-driven feeds.
func Relist(
	ctx context.Context,
	list func(ctx context.Context) ([]*Product, error),
	wait func(ctx context.Context) error,
	emit func(Snapshot),
) error {
	for {
		products, err := list(ctx)
		if err != nil {
			return err
		}
		emit(products)

		if err := wait(ctx); err != nil {
			return err
		}
	}
}
