package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"MessAPI/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultQueueSize bounds each subscription's pending events.
const DefaultQueueSize = 64

// Subscription is a bounded queue of events matching one filter. The owner
// either drains it on its own cycle or reads C.
type Subscription struct {
	filter Filter
	queue  chan Event
	hub    *Hub
	closed bool
}

func (s *Subscription) C() <-chan Event {
	return s.queue
}

// Drain returns every queued event without blocking.
func (s *Subscription) Drain() []Event {
	var events []Event
	for {
		select {
		case e, ok := <-s.queue:
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Hub fans change events out to subscriptions. With Redis attached, events
// travel through a pub/sub channel so every API instance sees them.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *zerolog.Logger

	rdb     *redis.Client
	channel string
	pubsub  *redis.PubSub
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// UseRedis routes published events through channel on rdb. Call before Start.
func (h *Hub) UseRedis(rdb *redis.Client, channel string) {
	h.rdb = rdb
	h.channel = channel
}

// Start subscribes to the Redis channel. Without Redis it does nothing.
func (h *Hub) Start(ctx context.Context) error {
	if h.rdb == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	pubsub := h.rdb.Subscribe(ctx, h.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", h.channel, err)
	}
	h.pubsub = pubsub
	h.cancel = cancel

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.listen(ctx, pubsub.Channel())
	}()
	return nil
}

// Stop ends the Redis listener and waits for it.
func (h *Hub) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	_ = h.pubsub.Close()
	h.wg.Wait()
	h.cancel = nil
}

func (h *Hub) listen(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				h.logger.Warn().Err(err).Msg("discarding malformed realtime payload")
				continue
			}
			h.dispatch(e)
		}
	}
}

// Publish delivers e to matching subscriptions. When the Redis publish fails
// the event is still dispatched locally and the error returned.
func (h *Hub) Publish(ctx context.Context, e Event) error {
	metrics.IncRealtimePublished(e.Table, string(e.Type))

	if h.rdb == nil || h.cancel == nil {
		h.dispatch(e)
		return nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := h.rdb.Publish(ctx, h.channel, payload).Err(); err != nil {
		h.logger.Warn().Err(err).Str("table", e.Table).Msg("redis publish failed, dispatching locally")
		h.dispatch(e)
		return err
	}
	return nil
}

// Subscribe registers a queue of size for events matching f.
func (h *Hub) Subscribe(f Filter, size int) *Subscription {
	if size <= 0 {
		size = DefaultQueueSize
	}
	s := &Subscription{filter: f, queue: make(chan Event, size), hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// SubscriberCount reports how many subscriptions are open.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(h.subs, s)
	close(s.queue)
}

func (h *Hub) dispatch(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if !s.filter.Matches(e) {
			continue
		}
		// Never block the publisher on a slow reader.
		select {
		case s.queue <- e:
		default:
			metrics.IncRealtimeDropped()
			h.logger.Warn().Str("table", e.Table).Str("event", e.ID).Msg("subscriber queue full, dropping event")
		}
	}
}
