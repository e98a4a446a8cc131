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

// Package service implements the pool operations behind the REST API:
// queries against the database joined with the live registry view, and
// the lifecycle machinery that drives cloud node groups.
package service

import (
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/cloud"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/registry"
)

// CloudClient is the node group API surface the lifecycle machinery
// needs. Satisfied by *cloud.Client.
type CloudClient interface {
	CreateNodeGroup(spec *cloud.Spec) (*cloud.Operation, error)
	UpdateNodeGroup(nodeGroupID string, spec *cloud.Spec) (*cloud.Operation, error)
	DeleteNodeGroup(nodeGroupID string) (*cloud.Operation, error)
	GetOperation(operationID string) (*cloud.Operation, error)
}

var (
	poolRegistry *registry.Registry
	eventBus     *Bus
	cloudClient  CloudClient
	specTemplate *cloud.SpecTemplate
)

// Init wires the package level collaborators. Called once on startup
// before the API is served.
func Init(reg *registry.Registry, bus *Bus, client CloudClient, tpl *cloud.SpecTemplate) {
	poolRegistry = reg
	eventBus = bus
	cloudClient = client
	specTemplate = tpl
}

func Registry() *registry.Registry {
	return poolRegistry
}

func Events() *Bus {
	return eventBus
}
