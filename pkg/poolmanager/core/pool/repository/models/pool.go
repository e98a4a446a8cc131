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

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fuzzcloud/pool-manager/pkg/setting"
)

type PoolHealth string

const (
	PoolHealthOk      PoolHealth = "Ok"
	PoolHealthWarning PoolHealth = "Warning"
	PoolHealthError   PoolHealth = "Error"
)

type OperationType string

const (
	OperationCreate OperationType = "Create"
	OperationUpdate OperationType = "Update"
	OperationDelete OperationType = "Delete"
)

// NodeGroup is the desired shape of a pool: how many nodes and how big.
// NodeGroupID is the id of the backing cloud node group, empty until the
// create operation has completed.
type NodeGroup struct {
	NodeCount   int    `bson:"node_count"              json:"node_count"`
	NodeCPU     int    `bson:"node_cpu"                json:"node_cpu"`
	NodeRAM     int    `bson:"node_ram"                json:"node_ram"`
	NodeGroupID string `bson:"node_group_id,omitempty" json:"node_group_id,omitempty"`
}

// Operation is the pending lifecycle transition of a pool. A pool has at
// most one. ScheduledFor delays the cloud call so that a user can still
// change their mind; CloudOperationID is set once the cloud API accepted
// the operation; ErrorMsg is set when the cloud reported a failure.
type Operation struct {
	Type             OperationType `bson:"type"                         json:"type"`
	ScheduledFor     string        `bson:"scheduled_for"                json:"scheduled_for"`
	CloudOperationID string        `bson:"cloud_operation_id,omitempty" json:"cloud_operation_id,omitempty"`
	ErrorMsg         string        `bson:"error_msg,omitempty"          json:"error_msg,omitempty"`
}

// Resources caches pool capacity figures computed from the desired node
// group and the live registry, so that list responses do not need to
// touch the cluster. FuzzerMaxCPU/RAM bound the biggest fuzzer that fits
// on a single node.
type Resources struct {
	CPUTotal   int64 `bson:"cpu_total"   json:"cpu_total"`
	RAMTotal   int64 `bson:"ram_total"   json:"ram_total"`
	NodesTotal int   `bson:"nodes_total" json:"nodes_total"`

	CPUAvail   int64 `bson:"cpu_avail"   json:"cpu_avail"`
	RAMAvail   int64 `bson:"ram_avail"   json:"ram_avail"`
	NodesAvail int   `bson:"nodes_avail" json:"nodes_avail"`

	FuzzerMaxCPU int64 `bson:"fuzzer_max_cpu" json:"fuzzer_max_cpu"`
	FuzzerMaxRAM int64 `bson:"fuzzer_max_ram" json:"fuzzer_max_ram"`
}

// Pool is a named group of worker nodes. UserID is empty for shared
// pools, which every user may read.
type Pool struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"      json:"id"`
	Name        string             `bson:"name"               json:"name"`
	Description string             `bson:"description"        json:"description"`
	UserID      string             `bson:"user_id,omitempty"  json:"user_id,omitempty"`
	ExpDate     string             `bson:"exp_date,omitempty" json:"exp_date,omitempty"`
	NodeGroup   NodeGroup          `bson:"node_group"         json:"node_group"`
	Operation   *Operation         `bson:"operation"          json:"operation"`
	Health      PoolHealth         `bson:"health"             json:"health"`
	CreatedAt   string             `bson:"created_at"         json:"created_at"`
	Resources   Resources          `bson:"resources"          json:"resources"`
}

func (Pool) TableName() string {
	return setting.PoolsCollName
}

// InTransition reports whether the pool has a pending or running
// lifecycle operation.
func (p *Pool) InTransition() bool {
	return p.Operation != nil
}

// Shared reports whether the pool is visible to every user.
func (p *Pool) Shared() bool {
	return p.UserID == ""
}
