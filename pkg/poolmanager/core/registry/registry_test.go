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

package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAndFind(t *testing.T) {
	reg := New()

	pool, err := reg.CreatePool("pool-1")
	require.NoError(t, err)
	assert.Equal(t, "pool-1", pool.ID())

	found, err := reg.FindPool("pool-1")
	require.NoError(t, err)
	assert.Same(t, pool, found)

	assert.True(t, reg.HasPool("pool-1"))
	assert.False(t, reg.HasPool("pool-2"))

	_, err = reg.CreatePool("pool-1")
	assert.Error(t, err)

	_, err = reg.FindPool("pool-2")
	assert.True(t, IsPoolNotFound(err))
}

func TestRegistryRemove(t *testing.T) {
	reg := New()

	_, err := reg.CreatePool("pool-1")
	require.NoError(t, err)

	require.NoError(t, reg.RemovePool("pool-1"))
	assert.False(t, reg.HasPool("pool-1"))

	err = reg.RemovePool("pool-1")
	assert.True(t, IsPoolNotFound(err))
}

func TestRegistryPools(t *testing.T) {
	reg := New()
	for i := 0; i < 3; i++ {
		_, err := reg.CreatePool(fmt.Sprintf("pool-%d", i))
		require.NoError(t, err)
	}

	assert.Len(t, reg.Pools(), 3)
}

func TestResourcePoolTotals(t *testing.T) {
	pool := NewResourcePool("pool-1")

	require.NoError(t, pool.AddNode("node-a", 4000, 8192))
	require.NoError(t, pool.AddNode("node-b", 2000, 4096))

	assert.Equal(t, int64(6000), pool.CPUTotal())
	assert.Equal(t, int64(12288), pool.RAMTotal())
	assert.Equal(t, 2, pool.NodeCount())

	err := pool.AddNode("node-a", 1000, 1024)
	assert.Error(t, err)

	require.NoError(t, pool.RemoveNode("node-a"))
	assert.Equal(t, int64(2000), pool.CPUTotal())
	assert.Equal(t, int64(4096), pool.RAMTotal())
	assert.Equal(t, 1, pool.NodeCount())

	err = pool.RemoveNode("node-a")
	assert.Error(t, err)
}

func TestResourcePoolUpdateNode(t *testing.T) {
	pool := NewResourcePool("pool-1")

	// unknown node is registered
	pool.UpdateNode("node-a", 4000, 8192)
	assert.Equal(t, int64(4000), pool.CPUTotal())
	assert.Equal(t, 1, pool.NodeCount())

	// known node is replaced, totals follow
	pool.UpdateNode("node-a", 2000, 4096)
	assert.Equal(t, int64(2000), pool.CPUTotal())
	assert.Equal(t, int64(4096), pool.RAMTotal())
	assert.Equal(t, 1, pool.NodeCount())
}

func TestResourcePoolNodesSorted(t *testing.T) {
	pool := NewResourcePool("pool-1")
	require.NoError(t, pool.AddNode("node-c", 1, 1))
	require.NoError(t, pool.AddNode("node-a", 1, 1))
	require.NoError(t, pool.AddNode("node-b", 1, 1))

	nodes := pool.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "node-a", nodes[0].Name)
	assert.Equal(t, "node-b", nodes[1].Name)
	assert.Equal(t, "node-c", nodes[2].Name)
}

func TestResourcePoolConcurrentUpdates(t *testing.T) {
	pool := NewResourcePool("pool-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pool.UpdateNode(fmt.Sprintf("node-%d", i), 1000, 2048)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, pool.NodeCount())
	assert.Equal(t, int64(50000), pool.CPUTotal())
	assert.Equal(t, int64(102400), pool.RAMTotal())
}
