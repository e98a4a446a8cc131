/*
Copyright 2022 The FuzzCloud Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/mongodb"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
	"github.com/fuzzcloud/pool-manager/pkg/util"
)

type EventKind string

const (
	EventPoolCreated EventKind = "pool_created"
	EventPoolUpdated EventKind = "pool_updated"
	EventPoolDeleted EventKind = "pool_deleted"
)

// subscriber channels are buffered; a consumer this far behind is
// dropped rather than allowed to stall publishing
const subscriberBuffer = 64

// pendingLimit bounds the events held for absent consumers
const pendingLimit = 1000

// Event is one pool change notification as delivered on the event
// stream. Payload is the JSON encoded pool at the time of the change.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	PoolID    string    `json:"pool_id"`
	Payload   string    `json:"payload"`
	CreatedAt string    `json:"created_at"`
}

// Bus fans pool events out to event stream subscribers. Events published
// while nobody listens are kept in a pending buffer; on shutdown the
// buffer is persisted and on the next start replayed, so that consumers
// with an at-least-once expectation survive restarts.
type Bus struct {
	mu          sync.Mutex
	subscribers map[string]chan Event
	pending     []Event
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe registers a consumer and replays any pending events to it.
// The returned id must be passed to Unsubscribe when done.
func (b *Bus) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)

	for _, ev := range b.pending {
		select {
		case ch <- ev:
		default:
		}
	}
	b.pending = nil

	b.subscribers[id] = ch

	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Publish delivers a pool change to all subscribers, buffering it when
// there are none.
func (b *Bus) Publish(kind EventKind, pool *models.Pool) {
	payload, err := json.Marshal(pool)
	if err != nil {
		log.Errorf("marshal pool event payload: %v", err)
		return
	}

	ev := Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		PoolID:    pool.ID.Hex(),
		Payload:   string(payload),
		CreatedAt: util.RFC3339(time.Now()),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.subscribers) == 0 {
		if len(b.pending) >= pendingLimit {
			b.pending = b.pending[1:]
		}
		b.pending = append(b.pending, ev)
		return
	}

	for id, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			log.Warnf("event subscriber %s is not keeping up, dropping it", id)
			delete(b.subscribers, id)
			close(ch)
		}
	}
}

// Restore loads events buffered by a previous run into the pending
// queue.
func (b *Bus) Restore(ctx context.Context) error {
	msgs, err := mongodb.NewUnsentMessageColl().LoadAndClear(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, msg := range msgs {
		b.pending = append(b.pending, Event{
			ID:        msg.EventID,
			Kind:      EventKind(msg.Kind),
			PoolID:    msg.PoolID,
			Payload:   msg.Payload,
			CreatedAt: msg.CreatedAt,
		})
	}

	if len(msgs) > 0 {
		log.Infof("restored %d undelivered pool events", len(msgs))
	}

	return nil
}

// Flush persists events nobody consumed. Called on shutdown.
func (b *Bus) Flush(ctx context.Context) error {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	msgs := make([]*models.UnsentMessage, 0, len(pending))
	for _, ev := range pending {
		msgs = append(msgs, &models.UnsentMessage{
			EventID:   ev.ID,
			Kind:      string(ev.Kind),
			PoolID:    ev.PoolID,
			Payload:   ev.Payload,
			CreatedAt: ev.CreatedAt,
		})
	}

	log.Infof("persisting %d undelivered pool events", len(msgs))

	return mongodb.NewUnsentMessageColl().SaveAll(ctx, msgs)
}
