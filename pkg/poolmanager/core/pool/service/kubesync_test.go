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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/registry"
)

const testLabelKey = "fuzzcloud.io/pool-id"

func testNode(name, poolID string, cpu, mem string, ready bool) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}

	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{testLabelKey: poolID},
		},
		Status: corev1.NodeStatus{
			Allocatable: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse(cpu),
				corev1.ResourceMemory: resource.MustParse(mem),
			},
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: status},
			},
		},
	}
}

func testSync() *ClusterSync {
	return &ClusterSync{
		labelKey:    testLabelKey,
		divertedCPU: 500,
		divertedRAM: 1024,
	}
}

func TestNodeResources(t *testing.T) {
	s := testSync()

	cpu, ram := s.nodeResources(testNode("node-a", "pool-1", "4", "8Gi", true))
	assert.Equal(t, int64(3500), cpu)
	assert.Equal(t, int64(7168), ram)
}

func TestNodeResourcesNeverNegative(t *testing.T) {
	s := testSync()

	cpu, ram := s.nodeResources(testNode("node-a", "pool-1", "250m", "512Mi", true))
	assert.Equal(t, int64(0), cpu)
	assert.Equal(t, int64(0), ram)
}

func TestNodeReady(t *testing.T) {
	assert.True(t, nodeReady(testNode("node-a", "pool-1", "1", "1Gi", true)))
	assert.False(t, nodeReady(testNode("node-a", "pool-1", "1", "1Gi", false)))

	// no ready condition at all
	node := testNode("node-a", "pool-1", "1", "1Gi", true)
	node.Status.Conditions = nil
	assert.False(t, nodeReady(node))
}

func TestSyncNodeRegistersPoolAndNode(t *testing.T) {
	poolRegistry = registry.New()
	s := testSync()

	s.syncNode(testNode("node-a", "pool-1", "4", "8Gi", true))

	rp, err := poolRegistry.FindPool("pool-1")
	require.NoError(t, err)
	assert.True(t, rp.HasNode("node-a"))
	assert.Equal(t, int64(3500), rp.CPUTotal())
}

func TestSyncNodeDropsUnreadyNode(t *testing.T) {
	poolRegistry = registry.New()
	s := testSync()

	s.syncNode(testNode("node-a", "pool-1", "4", "8Gi", true))
	s.syncNode(testNode("node-a", "pool-1", "4", "8Gi", false))

	rp, err := poolRegistry.FindPool("pool-1")
	require.NoError(t, err)
	assert.False(t, rp.HasNode("node-a"))
	assert.Equal(t, 0, rp.NodeCount())
}

func TestSyncNodeIgnoresUnlabeledNode(t *testing.T) {
	poolRegistry = registry.New()
	s := testSync()

	node := testNode("node-a", "", "4", "8Gi", true)
	node.Labels = nil
	s.syncNode(node)

	assert.Empty(t, poolRegistry.Pools())
}

func TestDropNode(t *testing.T) {
	poolRegistry = registry.New()
	s := testSync()

	node := testNode("node-a", "pool-1", "4", "8Gi", true)
	s.syncNode(node)
	s.dropNode(node)

	rp, err := poolRegistry.FindPool("pool-1")
	require.NoError(t, err)
	assert.Equal(t, 0, rp.NodeCount())

	// dropping an unknown node is harmless
	s.dropNode(testNode("node-b", "pool-2", "4", "8Gi", true))
}
