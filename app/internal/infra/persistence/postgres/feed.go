package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

// Feed pushes the productos collection on every change notified by the
// table trigger. Each subscription takes one connection out of the pool.
type Feed struct {
	pool    *pgxpool.Pool
	repo    *ProductRepository
	channel string
}

func NewFeed(pool *pgxpool.Pool, repo *ProductRepository, channel string) *Feed {
	return &Feed{pool: pool, repo: repo, channel: channel}
}

func (f *Feed) Subscribe(ctx context.Context) (*domproduct.Subscription, error) {
	pooled, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	// LISTEN state lives on the session, so the connection never returns to the pool.
	conn := pooled.Hijack()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("listen %s: %w", f.channel, err)
	}
	logx.Info().Str("channel", f.channel).Msg("listening for product changes")

	return domproduct.Watch(ctx, func(ctx context.Context, emit func(domproduct.Snapshot)) error {
		defer conn.Close(context.Background())

		wait := func(ctx context.Context) error {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				return err
			}
			logx.Debug().Str("channel", n.Channel).Str("op", n.Payload).Msg("product change notified")
			return nil
		}
		return domproduct.Relist(ctx, f.repo.List, wait, emit)
	}), nil
}
