package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const invalidationChannel = "dashboard:invalidate"

// Invalidation tells open dashboards that a route's data changed.
type Invalidation struct {
	Route string    `json:"route"`
	At    time.Time `json:"at"`
}

// SignalService fans route invalidations out over redis pub/sub. A nil
// client turns it into a no-op.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Enabled() bool {
	return s != nil && s.rdb != nil
}

func (s *SignalService) Publish(ctx context.Context, event Invalidation) error {
	if !s.Enabled() {
		return nil
	}

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, invalidationChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Subscribe delivers invalidations to output until ctx is done.
func (s *SignalService) Subscribe(ctx context.Context, output chan<- Invalidation) {
	if !s.Enabled() {
		<-ctx.Done()
		return
	}

	pubsub := s.rdb.Subscribe(ctx, invalidationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Invalidation
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "Malformed invalidation",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
