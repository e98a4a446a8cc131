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

package errors

import "net/http"

// Stable API error codes. Clients match on these, the messages are for
// humans and may change.
const (
	CodeNoError              = "E_NO_ERROR"
	CodeInternalError        = "E_INTERNAL_ERROR"
	CodePoolNotFound         = "E_POOL_NOT_FOUND"
	CodePoolAlreadyExists    = "E_POOL_ALREADY_EXISTS"
	CodePoolInTransition     = "E_POOL_IN_TRANSITION"
	CodePoolNodeGroupInvalid = "E_POOL_NODE_GROUP_INVALID"
	CodePoolUnhealthy        = "E_POOL_UNHEALTHY"
	CodeInvalidRequest       = "E_INVALID_REQUEST"
)

var (
	ErrInternalError = NewHTTPError(
		http.StatusInternalServerError, CodeInternalError,
		"Internal error occurred. Please, try again later or contact support service")

	ErrPoolNotFound = NewHTTPError(
		http.StatusNotFound, CodePoolNotFound,
		"Pool was not found")

	ErrPoolAlreadyExists = NewHTTPError(
		http.StatusConflict, CodePoolAlreadyExists,
		"Pool with this name already exists")

	ErrPoolInTransition = NewHTTPError(
		http.StatusConflict, CodePoolInTransition,
		"Pool is in transition, so it can't be modified")

	ErrPoolNodeGroupInvalid = NewHTTPError(
		http.StatusBadRequest, CodePoolNodeGroupInvalid,
		"Provided parameters for pool node group are invalid")

	ErrPoolUnhealthy = NewHTTPError(
		http.StatusConflict, CodePoolUnhealthy,
		"Unhealthy pool can not be modified")

	ErrInvalidParam = NewHTTPError(
		http.StatusBadRequest, CodeInvalidRequest,
		"Request validation failed")
)
