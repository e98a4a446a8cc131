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
	"sort"
	"sync"

	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

// Node is the live view of one worker node, with the resources available
// to fuzzer workloads. CPU is in millicores, RAM in MiB.
type Node struct {
	Name string `json:"name"`
	CPU  int64  `json:"cpu"`
	RAM  int64  `json:"ram"`
}

// ResourcePool tracks the nodes currently serving one pool. Totals are
// maintained incrementally and always equal the sum over nodes.
type ResourcePool struct {
	mu sync.RWMutex

	id       string
	cpuTotal int64
	ramTotal int64
	nodes    map[string]Node
}

func NewResourcePool(poolID string) *ResourcePool {
	return &ResourcePool{
		id:    poolID,
		nodes: make(map[string]Node),
	}
}

func (p *ResourcePool) AddNode(name string, cpu, ram int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.nodes[name]; ok {
		return &NodeAlreadyExistsError{PoolID: p.id, NodeName: name}
	}

	p.cpuTotal += cpu
	p.ramTotal += ram
	p.nodes[name] = Node{Name: name, CPU: cpu, RAM: ram}

	log.Debugf("[pool %s] node added: <name=%s, cpu=%dm, ram=%dMi>, summary: <cpu_total=%dm, ram_total=%dMi, node_count=%d>",
		p.id, name, cpu, ram, p.cpuTotal, p.ramTotal, len(p.nodes))

	return nil
}

func (p *ResourcePool) RemoveNode(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	node, ok := p.nodes[name]
	if !ok {
		return &NodeNotFoundError{PoolID: p.id, NodeName: name}
	}

	delete(p.nodes, name)
	p.cpuTotal -= node.CPU
	p.ramTotal -= node.RAM

	log.Debugf("[pool %s] node removed: <name=%s, cpu=%dm, ram=%dMi>, summary: <cpu_total=%dm, ram_total=%dMi, node_count=%d>",
		p.id, name, node.CPU, node.RAM, p.cpuTotal, p.ramTotal, len(p.nodes))

	return nil
}

// UpdateNode replaces the recorded resources of a node, registering it if
// it was unknown. Used by the cluster sync where add and update events
// are not reliably distinguishable.
func (p *ResourcePool) UpdateNode(name string, cpu, ram int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.nodes[name]; ok {
		p.cpuTotal -= old.CPU
		p.ramTotal -= old.RAM
	}

	p.cpuTotal += cpu
	p.ramTotal += ram
	p.nodes[name] = Node{Name: name, CPU: cpu, RAM: ram}
}

func (p *ResourcePool) HasNode(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.nodes[name]
	return ok
}

func (p *ResourcePool) ID() string {
	return p.id
}

func (p *ResourcePool) CPUTotal() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.cpuTotal
}

func (p *ResourcePool) RAMTotal() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.ramTotal
}

func (p *ResourcePool) NodeCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.nodes)
}

// Nodes returns a stable snapshot sorted by node name.
func (p *ResourcePool) Nodes() []Node {
	p.mu.RLock()
	defer p.mu.RUnlock()

	nodes := make([]Node, 0, len(p.nodes))
	for _, node := range p.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })

	return nodes
}
