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

// Package registry keeps the in-memory view of live pool resources. The
// database stores what a pool should look like, the registry what it
// looks like right now according to the cluster.
package registry

import "sync"

type Registry struct {
	mu    sync.RWMutex
	pools map[string]*ResourcePool
}

func New() *Registry {
	return &Registry{
		pools: make(map[string]*ResourcePool),
	}
}

func (r *Registry) CreatePool(poolID string) (*ResourcePool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pools[poolID]; ok {
		return nil, &PoolAlreadyExistsError{PoolID: poolID}
	}

	pool := NewResourcePool(poolID)
	r.pools[poolID] = pool

	return pool, nil
}

func (r *Registry) RemovePool(poolID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pools[poolID]; !ok {
		return &PoolNotFoundError{PoolID: poolID}
	}
	delete(r.pools, poolID)

	return nil
}

func (r *Registry) FindPool(poolID string) (*ResourcePool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool, ok := r.pools[poolID]
	if !ok {
		return nil, &PoolNotFoundError{PoolID: poolID}
	}

	return pool, nil
}

func (r *Registry) HasPool(poolID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pools[poolID]
	return ok
}

func (r *Registry) Pools() []*ResourcePool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pools := make([]*ResourcePool, 0, len(r.pools))
	for _, pool := range r.pools {
		pools = append(pools, pool)
	}

	return pools
}
