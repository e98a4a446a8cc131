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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
)

func testPool() *models.Pool {
	return &models.Pool{
		ID:   primitive.NewObjectID(),
		Name: "test-pool",
	}
}

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus()

	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	pool := testPool()
	bus.Publish(EventPoolCreated, pool)

	ev := <-ch
	assert.Equal(t, EventPoolCreated, ev.Kind)
	assert.Equal(t, pool.ID.Hex(), ev.PoolID)
	assert.NotEmpty(t, ev.ID)
	assert.NotEmpty(t, ev.CreatedAt)

	var decoded models.Pool
	require.NoError(t, json.Unmarshal([]byte(ev.Payload), &decoded))
	assert.Equal(t, pool.Name, decoded.Name)
}

func TestBusBuffersWithoutSubscribers(t *testing.T) {
	bus := NewBus()

	first := testPool()
	second := testPool()
	bus.Publish(EventPoolCreated, first)
	bus.Publish(EventPoolDeleted, second)

	// a late subscriber gets everything published while nobody listened
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	ev := <-ch
	assert.Equal(t, first.ID.Hex(), ev.PoolID)

	ev = <-ch
	assert.Equal(t, EventPoolDeleted, ev.Kind)
	assert.Equal(t, second.ID.Hex(), ev.PoolID)
}

func TestBusPendingIsDrainedOnce(t *testing.T) {
	bus := NewBus()
	bus.Publish(EventPoolCreated, testPool())

	id1, ch1 := bus.Subscribe()
	assert.Len(t, ch1, 1)
	bus.Unsubscribe(id1)

	id2, ch2 := bus.Subscribe()
	defer bus.Unsubscribe(id2)
	assert.Len(t, ch2, 0)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)

	// double unsubscribe is harmless
	bus.Unsubscribe(id)
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	id1, ch1 := bus.Subscribe()
	id2, ch2 := bus.Subscribe()
	defer bus.Unsubscribe(id1)
	defer bus.Unsubscribe(id2)

	pool := testPool()
	bus.Publish(EventPoolUpdated, pool)

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, ev1.ID, ev2.ID)
	assert.Equal(t, pool.ID.Hex(), ev1.PoolID)
}

func TestBusPendingLimit(t *testing.T) {
	bus := NewBus()

	for i := 0; i < pendingLimit+10; i++ {
		bus.Publish(EventPoolUpdated, testPool())
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.Len(t, bus.pending, pendingLimit)
}
