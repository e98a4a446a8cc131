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

import "fmt"

type PoolNotFoundError struct {
	PoolID string
}

func (e *PoolNotFoundError) Error() string {
	return fmt.Sprintf("pool %q not found", e.PoolID)
}

type PoolAlreadyExistsError struct {
	PoolID string
}

func (e *PoolAlreadyExistsError) Error() string {
	return fmt.Sprintf("pool %q already exists", e.PoolID)
}

type NodeNotFoundError struct {
	PoolID   string
	NodeName string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found in pool %q", e.NodeName, e.PoolID)
}

type NodeAlreadyExistsError struct {
	PoolID   string
	NodeName string
}

func (e *NodeAlreadyExistsError) Error() string {
	return fmt.Sprintf("node %q already exists in pool %q", e.NodeName, e.PoolID)
}

func IsPoolNotFound(err error) bool {
	_, ok := err.(*PoolNotFoundError)
	return ok
}
