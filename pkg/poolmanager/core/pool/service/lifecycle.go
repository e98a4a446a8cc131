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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/mongodb"
	"github.com/fuzzcloud/pool-manager/pkg/setting"
	e "github.com/fuzzcloud/pool-manager/pkg/tool/errors"
	"github.com/fuzzcloud/pool-manager/pkg/util"
)

// CreatePoolArgs is the body of the pool creation request.
type CreatePoolArgs struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	UserID      string           `json:"user_id"`
	ExpDate     string           `json:"exp_date"`
	NodeGroup   models.NodeGroup `json:"node_group"`
}

// CreatePool records a new pool and schedules the node group creation.
// The cloud call itself happens later, once the scheduling delay has
// passed, so that an accidental creation can still be taken back.
func CreatePool(ctx context.Context, args *CreatePoolArgs, logger *zap.SugaredLogger) (*models.Pool, error) {
	name, err := validatePoolName(args.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePoolDescription(args.Description); err != nil {
		return nil, err
	}
	if args.ExpDate != "" {
		if err := util.ValidateRFC3339(args.ExpDate); err != nil {
			return nil, e.ErrInvalidParam.AddErr(err)
		}
	}
	if err := validateNodeGroup(&args.NodeGroup); err != nil {
		return nil, err
	}

	now := time.Now()
	pool := &models.Pool{
		Name:        name,
		Description: args.Description,
		UserID:      ownerValue(args.UserID),
		ExpDate:     args.ExpDate,
		NodeGroup: models.NodeGroup{
			NodeCount: args.NodeGroup.NodeCount,
			NodeCPU:   args.NodeGroup.NodeCPU,
			NodeRAM:   args.NodeGroup.NodeRAM,
		},
		Operation: &models.Operation{
			Type:         models.OperationCreate,
			ScheduledFor: util.RFC3339(now.Add(config.OperationDelayCreate())),
		},
		Health:    models.PoolHealthError,
		CreatedAt: util.RFC3339(now),
	}

	if err := mongodb.NewPoolColl().Create(ctx, pool); err != nil {
		if mongodb.IsDuplicateKey(err) {
			return nil, e.ErrPoolAlreadyExists
		}
		logger.Errorf("create pool %q: %v", args.Name, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	logger.Infof("pool %s (%s) created, node group creation scheduled for %s",
		pool.ID.Hex(), pool.Name, pool.Operation.ScheduledFor)

	ensureRegistered(pool.ID.Hex())

	applyLiveView(pool)
	eventBus.Publish(EventPoolCreated, pool)

	return pool, nil
}

// UpdateNodeGroup changes the desired shape of the pool and schedules
// the cloud side resize.
func UpdateNodeGroup(ctx context.Context, id string, args *models.NodeGroup, logger *zap.SugaredLogger) (*models.Pool, error) {
	if err := validateNodeGroup(args); err != nil {
		return nil, err
	}

	coll := mongodb.NewPoolColl()
	pool, err := coll.GetByID(ctx, id)
	if err != nil {
		if mongodb.IsNotFound(err) {
			return nil, e.ErrPoolNotFound
		}
		logger.Errorf("get pool %s: %v", id, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	if pool.InTransition() {
		return nil, e.ErrPoolInTransition
	}

	applyLiveView(pool)
	if pool.Health == models.PoolHealthError {
		return nil, e.ErrPoolUnhealthy
	}

	pool.NodeGroup.NodeCount = args.NodeCount
	pool.NodeGroup.NodeCPU = args.NodeCPU
	pool.NodeGroup.NodeRAM = args.NodeRAM
	pool.Operation = &models.Operation{
		Type:         models.OperationUpdate,
		ScheduledFor: util.RFC3339(time.Now().Add(config.OperationDelayUpdate())),
	}

	if err := coll.Update(ctx, pool); err != nil {
		logger.Errorf("update pool %s: %v", id, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	logger.Infof("pool %s (%s) resize to %d nodes scheduled for %s",
		pool.ID.Hex(), pool.Name, args.NodeCount, pool.Operation.ScheduledFor)

	applyLiveView(pool)
	eventBus.Publish(EventPoolUpdated, pool)

	return pool, nil
}

// DeletePool schedules the removal of the pool and its node group. A
// pool whose last operation failed may be deleted right away, that is
// the cleanup path.
func DeletePool(ctx context.Context, id string, logger *zap.SugaredLogger) (*models.Pool, error) {
	coll := mongodb.NewPoolColl()
	pool, err := coll.GetByID(ctx, id)
	if err != nil {
		if mongodb.IsNotFound(err) {
			return nil, e.ErrPoolNotFound
		}
		logger.Errorf("get pool %s: %v", id, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	if pool.InTransition() && pool.Operation.ErrorMsg == "" {
		if pool.Operation.Type == models.OperationDelete {
			applyLiveView(pool)
			return pool, nil
		}
		return nil, e.ErrPoolInTransition
	}

	pool.Operation = &models.Operation{
		Type:         models.OperationDelete,
		ScheduledFor: util.RFC3339(time.Now().Add(config.OperationDelayDelete())),
	}

	if err := coll.Update(ctx, pool); err != nil {
		logger.Errorf("delete pool %s: %v", id, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	logger.Infof("pool %s (%s) deletion scheduled for %s",
		pool.ID.Hex(), pool.Name, pool.Operation.ScheduledFor)

	applyLiveView(pool)
	eventBus.Publish(EventPoolUpdated, pool)

	return pool, nil
}

const (
	maxPoolNameLen = 32
	maxPoolDescLen = 1000
)

// validatePoolName trims surrounding whitespace and returns the name
// actually stored.
func validatePoolName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxPoolNameLen {
		return "", e.ErrInvalidParam.AddDesc(fmt.Sprintf("name must be 1 to %d characters", maxPoolNameLen))
	}

	return name, nil
}

func validatePoolDescription(desc string) error {
	if desc == "" || len(desc) > maxPoolDescLen {
		return e.ErrInvalidParam.AddDesc(fmt.Sprintf("description must be 1 to %d characters", maxPoolDescLen))
	}

	return nil
}

// ensureRegistered creates the live registry entry so reads see the
// pool before its first node joins.
func ensureRegistered(poolID string) {
	if !poolRegistry.HasPool(poolID) {
		_, _ = poolRegistry.CreatePool(poolID)
	}
}

func validateNodeGroup(ng *models.NodeGroup) error {
	if ng.NodeCount < 1 {
		return e.ErrPoolNodeGroupInvalid.AddDesc(fmt.Sprintf("node_count must be positive, got %d", ng.NodeCount))
	}
	if ng.NodeCPU < 1 {
		return e.ErrPoolNodeGroupInvalid.AddDesc(fmt.Sprintf("node_cpu must be positive, got %d", ng.NodeCPU))
	}
	if ng.NodeRAM < 1 {
		return e.ErrPoolNodeGroupInvalid.AddDesc(fmt.Sprintf("node_ram must be positive, got %d", ng.NodeRAM))
	}

	return nil
}

// ownerValue maps the API user_id onto the stored owner field, the
// sentinel "shared" means no owner.
func ownerValue(userID string) string {
	if userID == setting.UserShared {
		return ""
	}

	return userID
}
