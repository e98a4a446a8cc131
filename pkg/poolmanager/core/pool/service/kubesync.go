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
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
	"github.com/fuzzcloud/pool-manager/pkg/tool/metrics"
)

const resyncPeriod = 5 * time.Minute

// ClusterSync watches cluster nodes carrying the pool label and keeps
// the registry in step with them. Node resources are reported net of the
// per node system reservation.
type ClusterSync struct {
	labelKey    string
	divertedCPU int64
	divertedRAM int64

	factory informers.SharedInformerFactory
	cancel  context.CancelFunc
}

// StartClusterSync begins watching nodes and blocks until the first full
// sync, so that the registry is complete before the API goes up.
func StartClusterSync(ctx context.Context, clientset kubernetes.Interface) (*ClusterSync, error) {
	s := &ClusterSync{
		labelKey:    config.PoolLabelKey(),
		divertedCPU: config.PoolNodeDivertedCPU(),
		divertedRAM: config.PoolNodeDivertedRAM(),
	}

	s.factory = informers.NewSharedInformerFactoryWithOptions(clientset, resyncPeriod,
		informers.WithTweakListOptions(func(opts *metav1.ListOptions) {
			opts.LabelSelector = s.labelKey
		}),
	)

	informer := s.factory.Core().V1().Nodes().Informer()
	_, err := informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			if node, ok := obj.(*corev1.Node); ok {
				s.syncNode(node)
			}
		},
		UpdateFunc: func(_, obj interface{}) {
			if node, ok := obj.(*corev1.Node); ok {
				s.syncNode(node)
			}
		},
		DeleteFunc: func(obj interface{}) {
			node, ok := obj.(*corev1.Node)
			if !ok {
				tombstone, ok := obj.(cache.DeletedFinalStateUnknown)
				if !ok {
					return
				}
				node, ok = tombstone.Obj.(*corev1.Node)
				if !ok {
					return
				}
			}
			s.dropNode(node)
		},
	})
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.factory.Start(watchCtx.Done())

	if ok := cache.WaitForCacheSync(ctx.Done(), informer.HasSynced); !ok {
		cancel()
		return nil, fmt.Errorf("node informer cache did not sync")
	}

	log.Infof("cluster sync started, watching nodes with label %q", s.labelKey)

	return s, nil
}

func (s *ClusterSync) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// syncNode records the node under its pool. A node that stopped being
// ready is dropped, its resources are of no use to anyone.
func (s *ClusterSync) syncNode(node *corev1.Node) {
	poolID := node.Labels[s.labelKey]
	if poolID == "" {
		return
	}

	if !nodeReady(node) {
		s.dropNode(node)
		return
	}

	rp, err := poolRegistry.FindPool(poolID)
	if err != nil {
		rp, err = poolRegistry.CreatePool(poolID)
		if err != nil {
			log.Errorf("register pool %s: %v", poolID, err)
			return
		}
	}

	cpu, ram := s.nodeResources(node)
	rp.UpdateNode(node.Name, cpu, ram)

	updateResourceMetrics()
}

func (s *ClusterSync) dropNode(node *corev1.Node) {
	poolID := node.Labels[s.labelKey]
	if poolID == "" {
		return
	}

	rp, err := poolRegistry.FindPool(poolID)
	if err != nil {
		return
	}

	if err := rp.RemoveNode(node.Name); err == nil {
		updateResourceMetrics()
	}
}

// nodeResources returns what is left for workloads after the system
// reservation, in millicores and MiB.
func (s *ClusterSync) nodeResources(node *corev1.Node) (cpu, ram int64) {
	cpuQty := node.Status.Allocatable[corev1.ResourceCPU]
	memQty := node.Status.Allocatable[corev1.ResourceMemory]

	cpu = cpuQty.MilliValue() - s.divertedCPU
	ram = memQty.Value()/(1024*1024) - s.divertedRAM

	if cpu < 0 {
		cpu = 0
	}
	if ram < 0 {
		ram = 0
	}

	return cpu, ram
}

func nodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}

	return false
}

func updateResourceMetrics() {
	var nodes int
	var cpu, ram int64
	for _, rp := range poolRegistry.Pools() {
		nodes += rp.NodeCount()
		cpu += rp.CPUTotal()
		ram += rp.RAMTotal()
	}

	metrics.PoolNodesTotal.Set(float64(nodes))
	metrics.PoolCPUTotal.Set(float64(cpu))
	metrics.PoolRAMTotal.Set(float64(ram))
}
