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

	"github.com/go-co-op/gocron/v2"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/mongodb"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
	"github.com/fuzzcloud/pool-manager/pkg/tool/metrics"
	"github.com/fuzzcloud/pool-manager/pkg/util"
)

const pollTimeout = time.Minute

const (
	dedicatedTaintKey    = "fuzzcloud.io/dedicated"
	dedicatedTaintValue  = "fuzzer"
	dedicatedTaintEffect = "NO_SCHEDULE"
)

// Pollers drive the asynchronous half of the pool lifecycle: submitting
// due operations to the cloud, tracking the ones in flight and expiring
// pools past their date.
type Pollers struct {
	scheduler gocron.Scheduler
}

func StartPollers() (*Pollers, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) error
	}{
		{"scheduled_operations", config.PollIntervalScheduledOperations(), pollScheduledOperations},
		{"cloud_operations", config.PollIntervalCloudOperations(), pollCloudOperations},
		{"expired_pools", config.PollIntervalExpiredPools(), pollExpiredPools},
	}

	for _, job := range jobs {
		job := job
		_, err := scheduler.NewJob(
			gocron.DurationJob(job.interval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
				defer cancel()

				err := job.run(ctx)
				metrics.RegisterPollerRun(job.name, err)
				if err != nil {
					log.Errorf("poller %s: %v", job.name, err)
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}

		log.Infof("poller %s runs every %s", job.name, job.interval)
	}

	scheduler.Start()

	return &Pollers{scheduler: scheduler}, nil
}

func (p *Pollers) Stop() error {
	return p.scheduler.Shutdown()
}

// pollScheduledOperations submits operations whose delay has passed to
// the cloud.
func pollScheduledOperations(ctx context.Context) error {
	pools, err := mongodb.NewPoolColl().ListOperationsScheduled(ctx, util.RFC3339(time.Now()))
	if err != nil {
		return err
	}

	for _, pool := range pools {
		if err := submitOperation(ctx, pool); err != nil {
			log.Errorf("submit %s operation for pool %s: %v", pool.Operation.Type, pool.ID.Hex(), err)
		}
	}

	return nil
}

func submitOperation(ctx context.Context, pool *models.Pool) error {
	var (
		op  *cloudOperation
		err error
	)

	switch pool.Operation.Type {
	case models.OperationCreate:
		op, err = submitCreate(pool)
	case models.OperationUpdate:
		op, err = submitUpdate(pool)
	case models.OperationDelete:
		if pool.NodeGroup.NodeGroupID == "" {
			// nothing was ever created in the cloud, finish locally
			return finishDelete(ctx, pool)
		}
		op, err = submitDelete(pool)
	default:
		err = fmt.Errorf("unknown operation type %q", pool.Operation.Type)
	}

	coll := mongodb.NewPoolColl()
	if err != nil {
		pool.Operation.ErrorMsg = err.Error()
		if uerr := coll.Update(ctx, pool); uerr != nil {
			return uerr
		}
		eventBus.Publish(EventPoolUpdated, pool)
		return err
	}

	if op.completed() && pool.Operation.Type == models.OperationDelete {
		// the node group was already gone, nothing to track
		return finishDelete(ctx, pool)
	}

	pool.Operation.CloudOperationID = op.id
	if op.nodeGroupID != "" {
		pool.NodeGroup.NodeGroupID = op.nodeGroupID
	}
	if err := coll.Update(ctx, pool); err != nil {
		return err
	}

	log.Infof("pool %s (%s): %s operation submitted, cloud operation %s",
		pool.ID.Hex(), pool.Name, pool.Operation.Type, op.id)

	return nil
}

type cloudOperation struct {
	id          string
	nodeGroupID string
	done        bool
}

// completed reports an operation that ended on submission, with no
// cloud operation left to track.
func (op *cloudOperation) completed() bool {
	return op.done && op.id == ""
}

func submitCreate(pool *models.Pool) (*cloudOperation, error) {
	spec := specTemplate.NewSpec().
		SetName(nodeGroupName(pool)).
		SetSize(pool.NodeGroup.NodeCount).
		SetNodeCPU(pool.NodeGroup.NodeCPU).
		SetNodeRAM(pool.NodeGroup.NodeRAM).
		SetLabel(config.PoolLabelKey(), pool.ID.Hex()).
		SetTaint(dedicatedTaintKey, dedicatedTaintValue, dedicatedTaintEffect)

	op, err := cloudClient.CreateNodeGroup(spec)
	if err != nil {
		return nil, err
	}

	return &cloudOperation{id: op.ID, nodeGroupID: op.NodeGroupID()}, nil
}

func submitUpdate(pool *models.Pool) (*cloudOperation, error) {
	if pool.NodeGroup.NodeGroupID == "" {
		return nil, fmt.Errorf("pool has no node group to resize")
	}

	spec := specTemplate.NewSpec().
		SetSize(pool.NodeGroup.NodeCount).
		SetNodeCPU(pool.NodeGroup.NodeCPU).
		SetNodeRAM(pool.NodeGroup.NodeRAM)

	op, err := cloudClient.UpdateNodeGroup(pool.NodeGroup.NodeGroupID, spec)
	if err != nil {
		return nil, err
	}

	return &cloudOperation{id: op.ID}, nil
}

func submitDelete(pool *models.Pool) (*cloudOperation, error) {
	op, err := cloudClient.DeleteNodeGroup(pool.NodeGroup.NodeGroupID)
	if err != nil {
		return nil, err
	}

	return &cloudOperation{id: op.ID, done: op.Done}, nil
}

// pollCloudOperations advances pools whose cloud operation finished and
// refreshes the stored health of the idle ones.
func pollCloudOperations(ctx context.Context) error {
	pools, err := mongodb.NewPoolColl().ListOperationsInProgress(ctx)
	if err != nil {
		return err
	}

	for _, pool := range pools {
		if err := trackOperation(ctx, pool); err != nil {
			log.Errorf("track operation for pool %s: %v", pool.ID.Hex(), err)
		}
	}

	return refreshHealth(ctx)
}

func trackOperation(ctx context.Context, pool *models.Pool) error {
	op, err := cloudClient.GetOperation(pool.Operation.CloudOperationID)
	if err != nil {
		return err
	}
	if !op.Done {
		return nil
	}

	coll := mongodb.NewPoolColl()

	if op.Failed() {
		pool.Operation.ErrorMsg = op.Error.Message
		if err := coll.Update(ctx, pool); err != nil {
			return err
		}

		log.Warnf("pool %s (%s): %s operation failed in the cloud: %s",
			pool.ID.Hex(), pool.Name, pool.Operation.Type, op.Error.Message)

		applyLiveView(pool)
		eventBus.Publish(EventPoolUpdated, pool)
		return nil
	}

	switch pool.Operation.Type {
	case models.OperationCreate:
		if id := op.NodeGroupID(); id != "" {
			pool.NodeGroup.NodeGroupID = id
		}
		fallthrough
	case models.OperationUpdate:
		pool.Operation = nil
		applyLiveView(pool)
		if err := coll.Update(ctx, pool); err != nil {
			return err
		}

		log.Infof("pool %s (%s): operation completed, health is %s", pool.ID.Hex(), pool.Name, pool.Health)
		eventBus.Publish(EventPoolUpdated, pool)

	case models.OperationDelete:
		return finishDelete(ctx, pool)
	}

	return nil
}

// finishDelete removes every trace of the pool: the document, the
// registry entry and finally tells the consumers.
func finishDelete(ctx context.Context, pool *models.Pool) error {
	if err := mongodb.NewPoolColl().Delete(ctx, pool.ID.Hex()); err != nil {
		return err
	}

	if poolRegistry.HasPool(pool.ID.Hex()) {
		if err := poolRegistry.RemovePool(pool.ID.Hex()); err != nil {
			log.Warnf("remove pool %s from registry: %v", pool.ID.Hex(), err)
		}
	}

	log.Infof("pool %s (%s) deleted", pool.ID.Hex(), pool.Name)
	eventBus.Publish(EventPoolDeleted, pool)
	updateResourceMetrics()

	return nil
}

// pollExpiredPools schedules deletion for pools past their expiration
// date.
func pollExpiredPools(ctx context.Context) error {
	pools, err := mongodb.NewPoolColl().ListExpired(ctx, util.RFC3339(time.Now()))
	if err != nil {
		return err
	}

	coll := mongodb.NewPoolColl()
	for _, pool := range pools {
		pool.Operation = &models.Operation{
			Type:         models.OperationDelete,
			ScheduledFor: util.RFC3339(time.Now()),
		}
		if err := coll.Update(ctx, pool); err != nil {
			log.Errorf("expire pool %s: %v", pool.ID.Hex(), err)
			continue
		}

		log.Infof("pool %s (%s) expired at %s, deletion scheduled", pool.ID.Hex(), pool.Name, pool.ExpDate)
		eventBus.Publish(EventPoolUpdated, pool)
	}

	return nil
}

// refreshHealth persists health transitions of idle pools and updates
// the health gauges.
func refreshHealth(ctx context.Context) error {
	coll := mongodb.NewPoolColl()
	pools, err := coll.ListNoOperation(ctx)
	if err != nil {
		return err
	}

	byHealth := map[models.PoolHealth]int{}
	for _, pool := range pools {
		stored := pool.Health
		applyLiveView(pool)
		byHealth[pool.Health]++

		if pool.Health == stored {
			continue
		}

		if err := coll.UpdateFields(ctx, pool.ID.Hex(), map[string]interface{}{"health": pool.Health}); err != nil {
			log.Errorf("update health of pool %s: %v", pool.ID.Hex(), err)
			continue
		}

		log.Infof("pool %s (%s) health changed %s -> %s", pool.ID.Hex(), pool.Name, stored, pool.Health)
		eventBus.Publish(EventPoolUpdated, pool)
	}

	total, err := coll.Count(ctx, nil)
	if err != nil {
		return err
	}
	metrics.PoolsTotal.Set(float64(total))
	for _, health := range []models.PoolHealth{models.PoolHealthOk, models.PoolHealthWarning, models.PoolHealthError} {
		metrics.PoolsByHealth.WithLabelValues(string(health)).Set(float64(byHealth[health]))
	}

	return nil
}

// nodeGroupName derives a cloud side name that stays unique even when
// two users own pools with the same name.
func nodeGroupName(pool *models.Pool) string {
	return fmt.Sprintf("pool-%s", pool.ID.Hex())
}
