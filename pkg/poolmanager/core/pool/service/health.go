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
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
)

// ComputeHealth grades a pool by how far the live node count is from the
// desired one. No nodes at all means the pool cannot run anything.
func ComputeHealth(desiredNodes, liveNodes int) models.PoolHealth {
	switch {
	case liveNodes == 0:
		return models.PoolHealthError
	case liveNodes != desiredNodes:
		return models.PoolHealthWarning
	default:
		return models.PoolHealthOk
	}
}
