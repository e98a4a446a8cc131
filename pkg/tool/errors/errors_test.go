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

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(http.StatusTeapot, "E_TEAPOT", "I am a teapot")

	assert.Equal(t, http.StatusTeapot, err.Status())
	assert.Equal(t, "E_TEAPOT", err.Code())
	assert.Equal(t, "I am a teapot", err.Error())
	assert.Empty(t, err.Details())
}

func TestAddDescDoesNotMutateOriginal(t *testing.T) {
	withDetail := ErrPoolNotFound.AddDesc("pool abc")

	assert.Equal(t, []string{"pool abc"}, withDetail.Details())
	assert.Empty(t, ErrPoolNotFound.Details())

	// details accumulate on the copies, not on the registry entry
	more := withDetail.AddDesc("second")
	assert.Equal(t, []string{"pool abc", "second"}, more.Details())
	assert.Equal(t, []string{"pool abc"}, withDetail.Details())
}

func TestAddErr(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrInternalError.AddErr(cause)

	assert.Equal(t, []string{"connection refused"}, err.Details())
	assert.Equal(t, ErrInternalError.Code(), err.Code())
	assert.Equal(t, ErrInternalError.Status(), err.Status())
}

func TestRegistryEntries(t *testing.T) {
	tests := []struct {
		err    *HTTPError
		status int
		code   string
	}{
		{ErrInternalError, http.StatusInternalServerError, CodeInternalError},
		{ErrPoolNotFound, http.StatusNotFound, CodePoolNotFound},
		{ErrPoolAlreadyExists, http.StatusConflict, CodePoolAlreadyExists},
		{ErrPoolInTransition, http.StatusConflict, CodePoolInTransition},
		{ErrPoolNodeGroupInvalid, http.StatusBadRequest, CodePoolNodeGroupInvalid},
		{ErrPoolUnhealthy, http.StatusConflict, CodePoolUnhealthy},
		{ErrInvalidParam, http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
			assert.Equal(t, tt.code, tt.err.Code())
		})
	}
}
