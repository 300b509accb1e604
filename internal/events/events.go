package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// EventType определяет тип события заявки
type EventType string

const (
	EventRequestCreated         EventType = "request_created"
	EventRequestAccepted        EventType = "request_accepted"
	EventRequestRejected        EventType = "request_rejected"
	EventRequestCancelled       EventType = "request_cancelled"
	EventRequestStarted         EventType = "request_started"
	EventRequestReturnConfirmed EventType = "request_return_confirmed"
	EventRequestCompleted       EventType = "request_completed"
	EventRequestDisputed        EventType = "request_disputed"
)

// RequestEvent - сообщение о смене состояния заявки, адресованное её участникам
type RequestEvent struct {
	Type       EventType           `json:"type"`
	RequestID  uuid.UUID           `json:"request_id"`
	ListingID  uuid.UUID           `json:"listing_id"`
	ActorID    uuid.UUID           `json:"actor_id"`
	State      models.RequestState `json:"state"`
	Recipients []uuid.UUID         `json:"recipients"`
	Timestamp  time.Time           `json:"timestamp"`
}

// RedisPublisher публикует события в канал Redis
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher создаёт издателя для канала
func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// PublishRequestEvent сериализует событие и отправляет его в канал
func (p *RedisPublisher) PublishRequestEvent(ctx context.Context, event RequestEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

// Subscribe подписывается на канал и отдаёт разобранные события до отмены ctx
func Subscribe(ctx context.Context, rdb *redis.Client, channel string) (<-chan RequestEvent, error) {
	sub := rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("ошибка подписки на %s: %w", channel, err)
	}

	out := make(chan RequestEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event RequestEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// NopPublisher отбрасывает события, когда Redis не настроен
type NopPublisher struct{}

// PublishRequestEvent ничего не делает
func (NopPublisher) PublishRequestEvent(context.Context, RequestEvent) error { return nil }
