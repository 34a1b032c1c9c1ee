// Package notify publishes change events over Redis pub/sub. Subscribers use
// the resource name purely as a cache-invalidation trigger and re-fetch over
// HTTP; no payload from this channel is trusted for correctness.
package notify

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const Channel = "evalboard:changes"

// Resource names carried on the channel.
const (
	ResourceCandidates  = "candidates"
	ResourceEvaluators  = "evaluators"
	ResourceCategories  = "categories"
	ResourceItems       = "items"
	ResourcePresets     = "presets"
	ResourceSubmissions = "submissions"
	ResourceConfig      = "config"
)

// Publisher emits resource-changed events after successful writes.
type Publisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewPublisher(client *redis.Client, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Changed publishes a change for one resource. Publish failures are logged
// and swallowed: subscribers also poll, so a missed event only delays
// freshness.
func (p *Publisher) Changed(ctx context.Context, resource string) {
	if p == nil || p.client == nil {
		return
	}
	if err := p.client.Publish(ctx, Channel, resource).Err(); err != nil {
		p.logger.Warn("Failed to publish change event",
			zap.String("resource", resource), zap.Error(err))
	}
}

// Subscriber invokes onChange with the resource name for every event until
// ctx is cancelled.
type Subscriber struct {
	client *redis.Client
	logger *zap.Logger
}

func NewSubscriber(client *redis.Client, logger *zap.Logger) *Subscriber {
	return &Subscriber{client: client, logger: logger}
}

func (s *Subscriber) Run(ctx context.Context, onChange func(resource string)) error {
	sub := s.client.Subscribe(ctx, Channel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			onChange(msg.Payload)
		}
	}
}
