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

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/mongodb"
	e "github.com/fuzzcloud/pool-manager/pkg/tool/errors"
	"github.com/fuzzcloud/pool-manager/pkg/util"
)

// PoolListResp is the paginator envelope of every list endpoint.
type PoolListResp struct {
	PageNum  int            `json:"pg_num"`
	PageSize int            `json:"pg_size"`
	Items    []*models.Pool `json:"items"`
}

// CountResp reports the total together with how many pages it spans at
// the requested page size.
type CountResp struct {
	PageSize   int   `json:"pg_size"`
	PageTotal  int64 `json:"pg_total"`
	CountTotal int64 `json:"cnt_total"`
}

func newCountResp(total int64, pgSize int) *CountResp {
	return &CountResp{
		PageSize:   pgSize,
		PageTotal:  (total + int64(pgSize) - 1) / int64(pgSize),
		CountTotal: total,
	}
}

func ListPools(ctx context.Context, userID *string, pgNum, pgSize int, logger *zap.SugaredLogger) (*PoolListResp, error) {
	pools, err := mongodb.NewPoolColl().List(ctx, &mongodb.PoolListOption{
		PageNum:  pgNum,
		PageSize: pgSize,
		UserID:   userID,
	})
	if err != nil {
		logger.Errorf("list pools: %v", err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	for _, pool := range pools {
		applyLiveView(pool)
	}

	return &PoolListResp{PageNum: pgNum, PageSize: pgSize, Items: pools}, nil
}

func CountPools(ctx context.Context, userID *string, pgSize int, logger *zap.SugaredLogger) (*CountResp, error) {
	count, err := mongodb.NewPoolColl().Count(ctx, userID)
	if err != nil {
		logger.Errorf("count pools: %v", err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	return newCountResp(count, pgSize), nil
}

// ListAvailablePools returns the pools the user may run workloads in:
// their own plus the shared ones.
func ListAvailablePools(ctx context.Context, userID string, pgNum, pgSize int, logger *zap.SugaredLogger) (*PoolListResp, error) {
	pools, err := mongodb.NewPoolColl().ListAvailable(ctx, userID, &mongodb.PoolListOption{
		PageNum:  pgNum,
		PageSize: pgSize,
	})
	if err != nil {
		logger.Errorf("list available pools: %v", err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	for _, pool := range pools {
		applyLiveView(pool)
	}

	return &PoolListResp{PageNum: pgNum, PageSize: pgSize, Items: pools}, nil
}

func CountAvailablePools(ctx context.Context, userID string, pgSize int, logger *zap.SugaredLogger) (*CountResp, error) {
	count, err := mongodb.NewPoolColl().CountAvailable(ctx, userID)
	if err != nil {
		logger.Errorf("count available pools: %v", err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	return newCountResp(count, pgSize), nil
}

// LookupPool finds a pool by name within the owner scope; userID
// "shared" or empty selects the shared pools.
func LookupPool(ctx context.Context, name, userID string, logger *zap.SugaredLogger) (*models.Pool, error) {
	pool, err := mongodb.NewPoolColl().GetByName(ctx, name, userID)
	if err != nil {
		if mongodb.IsNotFound(err) {
			return nil, e.ErrPoolNotFound
		}
		logger.Errorf("lookup pool %q: %v", name, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	applyLiveView(pool)

	return pool, nil
}

// GetPool returns one pool. With a userID the pool must be shared or
// owned by that user; anything else reads as not found, ownership is
// never disclosed.
func GetPool(ctx context.Context, id string, userID *string, logger *zap.SugaredLogger) (*models.Pool, error) {
	pool, err := mongodb.NewPoolColl().GetByID(ctx, id)
	if err != nil {
		if mongodb.IsNotFound(err) {
			return nil, e.ErrPoolNotFound
		}
		logger.Errorf("get pool %s: %v", id, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	if !visibleTo(pool, userID) {
		return nil, e.ErrPoolNotFound
	}

	applyLiveView(pool)

	return pool, nil
}

// GetAvailableResources reports what is free in the pool right now.
func GetAvailableResources(ctx context.Context, id string, userID *string, logger *zap.SugaredLogger) (*models.Resources, error) {
	pool, err := GetPool(ctx, id, userID, logger)
	if err != nil {
		return nil, err
	}

	return &pool.Resources, nil
}

// UpdatePoolInfoArgs carries the metadata fields of the PATCH request;
// nil fields stay untouched.
type UpdatePoolInfoArgs struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ExpDate     *string `json:"exp_date"`
}

// UpdatePoolInfo patches pool metadata. With a userID only the owner
// may patch, shared pools included.
func UpdatePoolInfo(ctx context.Context, id string, userID *string, args *UpdatePoolInfoArgs, logger *zap.SugaredLogger) (*models.Pool, error) {
	fields := bson.M{}
	if args.Name != nil {
		name, err := validatePoolName(*args.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if args.Description != nil {
		if err := validatePoolDescription(*args.Description); err != nil {
			return nil, err
		}
		fields["description"] = *args.Description
	}
	if args.ExpDate != nil {
		if *args.ExpDate != "" {
			if err := util.ValidateRFC3339(*args.ExpDate); err != nil {
				return nil, e.ErrInvalidParam.AddErr(err)
			}
		}
		fields["exp_date"] = *args.ExpDate
	}

	if len(fields) == 0 {
		return nil, e.ErrInvalidParam.AddDesc("at least one field must be provided")
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

	if !ownedBy(pool, userID) {
		return nil, e.ErrPoolNotFound
	}

	if err := coll.UpdateFields(ctx, id, fields); err != nil {
		if mongodb.IsDuplicateKey(err) {
			return nil, e.ErrPoolAlreadyExists
		}
		logger.Errorf("update pool %s info: %v", id, err)
		return nil, e.ErrInternalError.AddErr(err)
	}

	pool, err = GetPool(ctx, id, nil, logger)
	if err != nil {
		return nil, err
	}

	eventBus.Publish(EventPoolUpdated, pool)

	return pool, nil
}

// visibleTo reports whether the user may read the pool: shared pools
// are visible to everybody, owned pools to their owner. A nil userID
// means no filtering.
func visibleTo(pool *models.Pool, userID *string) bool {
	if userID == nil {
		return true
	}

	return pool.Shared() || pool.UserID == *userID
}

// ownedBy reports whether the user owns the pool. Unlike reads, shared
// pools have no owner and match nobody.
func ownedBy(pool *models.Pool, userID *string) bool {
	if userID == nil {
		return true
	}

	return pool.UserID == *userID
}

// applyLiveView overlays the stored pool with what the registry knows
// right now: actual capacity, free resources and health.
func applyLiveView(pool *models.Pool) {
	res := &pool.Resources

	res.NodesTotal = pool.NodeGroup.NodeCount
	res.CPUTotal = int64(pool.NodeGroup.NodeCount) * coresToMillicores(pool.NodeGroup.NodeCPU)
	res.RAMTotal = int64(pool.NodeGroup.NodeCount) * gibToMib(pool.NodeGroup.NodeRAM)

	res.NodesAvail = 0
	res.CPUAvail = 0
	res.RAMAvail = 0
	res.FuzzerMaxCPU = 0
	res.FuzzerMaxRAM = 0

	rp, err := poolRegistry.FindPool(pool.ID.Hex())
	if err == nil {
		res.NodesAvail = rp.NodeCount()
		res.CPUAvail = rp.CPUTotal()
		res.RAMAvail = rp.RAMTotal()

		// the biggest fuzzer must fit on every node, so the smallest
		// node is the bound
		for i, node := range rp.Nodes() {
			if i == 0 || node.CPU < res.FuzzerMaxCPU {
				res.FuzzerMaxCPU = node.CPU
			}
			if i == 0 || node.RAM < res.FuzzerMaxRAM {
				res.FuzzerMaxRAM = node.RAM
			}
		}
	}

	pool.Health = ComputeHealth(pool.NodeGroup.NodeCount, res.NodesAvail)
}

func coresToMillicores(cores int) int64 {
	return int64(cores) * 1000
}

func gibToMib(gib int) int64 {
	return int64(gib) * 1024
}
