package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

var errChannelClosed = errors.New("product change channel closed")

// ChangeMessage is published after every write to the collection.
type ChangeMessage struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Timestamp int64  `json:"timestamp"`
}

const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// NotifyingRepository publishes a ChangeMessage after each successful write
// of the wrapped repository. A failed publish is logged; the write stands.
type NotifyingRepository struct {
	domproduct.Repository
	client  *redis.Client
	channel string
}

func NewNotifyingRepository(repo domproduct.Repository, client *redis.Client, channel string) *NotifyingRepository {
	return &NotifyingRepository{Repository: repo, client: client, channel: channel}
}

func (r *NotifyingRepository) Add(ctx context.Context, f domproduct.Fields, createdAt time.Time) (*domproduct.Product, error) {
	p, err := r.Repository.Add(ctx, f, createdAt)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, ActionAdded, p.ID)
	return p, nil
}

func (r *NotifyingRepository) Update(ctx context.Context, id string, f domproduct.Fields, updatedAt time.Time) (*domproduct.Product, error) {
	p, err := r.Repository.Update(ctx, id, f, updatedAt)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, ActionUpdated, id)
	return p, nil
}

func (r *NotifyingRepository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.publish(ctx, ActionDeleted, id)
	return nil
}

func (r *NotifyingRepository) publish(ctx context.Context, action, id string) {
	data, err := json.Marshal(ChangeMessage{Action: action, ProductID: id, Timestamp: time.Now().UnixNano()})
	if err != nil {
		logx.Error().Err(err).Msg("marshal product change")
		return
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		logx.Error().Err(err).Str("channel", r.channel).Msg("publish product change")
	}
}

// Lister reads the full collection.
type Lister interface {
	List(ctx context.Context) ([]*domproduct.Product, error)
}

// Feed relists the collection every time a change is published on channel.
type Feed struct {
	client  *redis.Client
	lister  Lister
	channel string
}

func NewFeed(client *redis.Client, lister Lister, channel string) *Feed {
	return &Feed{client: client, lister: lister, channel: channel}
}

func (f *Feed) Subscribe(ctx context.Context) (*domproduct.Subscription, error) {
	pubsub := f.client.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", f.channel, err)
	}
	logx.Info().Str("channel", f.channel).Msg("subscribed to product changes")

	return domproduct.Watch(ctx, func(ctx context.Context, emit func(domproduct.Snapshot)) error {
		defer pubsub.Close()
		messages := pubsub.Channel()

		wait := func(ctx context.Context) error {
			select {
			case msg, ok := <-messages:
				if !ok {
					return errChannelClosed
				}
				var change ChangeMessage
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					logx.Warn().Err(err).Str("payload", msg.Payload).Msg("malformed product change, relisting anyway")
				} else {
					logx.Debug().Str("action", change.Action).Str("product_id", change.ProductID).Msg("product change received")
				}
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return domproduct.Relist(ctx, f.lister.List, wait, emit)
	}), nil
}
