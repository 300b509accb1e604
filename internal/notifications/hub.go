// Package notifications раскладывает события заявок по почтовым ящикам
// получателей и отдаёт их клиентам через long polling.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/events"
)

// DefaultInboxSize - сколько непрочитанных событий хранится на пользователя
const DefaultInboxSize = 100

// Hub хранит непрочитанные события пользователей в памяти процесса
type Hub struct {
	mu      sync.Mutex
	inboxes map[uuid.UUID][]events.RequestEvent
	waiters map[uuid.UUID]map[chan struct{}]struct{}
	limit   int
	closed  bool
}

// NewHub создает новый экземпляр Hub
func NewHub(limit int) *Hub {
	if limit <= 0 {
		limit = DefaultInboxSize
	}
	return &Hub{
		inboxes: make(map[uuid.UUID][]events.RequestEvent),
		waiters: make(map[uuid.UUID]map[chan struct{}]struct{}),
		limit:   limit,
	}
}

// Deliver кладёт событие в ящик каждого получателя и будит ожидающих
func (h *Hub) Deliver(event events.RequestEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, userID := range event.Recipients {
		inbox := append(h.inboxes[userID], event)
		// Старые события вытесняются, если клиент давно не забирал ящик
		if len(inbox) > h.limit {
			inbox = inbox[len(inbox)-h.limit:]
		}
		h.inboxes[userID] = inbox

		for ch := range h.waiters[userID] {
			close(ch)
		}
		delete(h.waiters, userID)
	}
}

// PublishRequestEvent доставляет событие напрямую, когда Redis недоступен
func (h *Hub) PublishRequestEvent(_ context.Context, event events.RequestEvent) error {
	h.Deliver(event)
	return nil
}

// Run доставляет события из подписки до её закрытия
func (h *Hub) Run(in <-chan events.RequestEvent) {
	for event := range in {
		h.Deliver(event)
	}
	log.Info("Подписка на события заявок завершена")
}

// Drain забирает накопленные события пользователя. Если ящик пуст, ждёт
// не дольше wait, пока что-нибудь не придёт.
func (h *Hub) Drain(ctx context.Context, userID uuid.UUID, wait time.Duration) []events.RequestEvent {
	h.mu.Lock()
	if out := h.take(userID); len(out) > 0 || wait <= 0 || h.closed {
		h.mu.Unlock()
		return out
	}

	ch := make(chan struct{})
	if h.waiters[userID] == nil {
		h.waiters[userID] = make(map[chan struct{}]struct{})
	}
	h.waiters[userID][ch] = struct{}{}
	h.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ch:
	case <-timer.C:
	case <-ctx.Done():
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.waiters[userID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.waiters, userID)
		}
	}
	return h.take(userID)
}

func (h *Hub) take(userID uuid.UUID) []events.RequestEvent {
	out := h.inboxes[userID]
	delete(h.inboxes, userID)
	if out == nil {
		out = []events.RequestEvent{}
	}
	return out
}

// Shutdown будит всех ожидающих и перестаёт принимать события
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, set := range h.waiters {
		for ch := range set {
			close(ch)
		}
	}
	h.waiters = make(map[uuid.UUID]map[chan struct{}]struct{})
}
