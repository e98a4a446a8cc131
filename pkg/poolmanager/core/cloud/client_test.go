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

package cloud

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzzcloud/pool-manager/pkg/tool/httpclient"
)

// cachedTokenProvider returns a provider whose token never needs the
// auth endpoint.
func cachedTokenProvider() *TokenProvider {
	return &TokenProvider{
		token:     "test-token",
		expiresAt: time.Now().Add(24 * time.Hour),
		now:       time.Now,
	}
}

func testClient(server *httptest.Server) *Client {
	return &Client{
		nodeGroupsURL: server.URL + "/nodeGroups",
		operationsURL: server.URL + "/operations",
		tokens:        cachedTokenProvider(),
		client:        httpclient.New(),
	}
}

func TestCreateNodeGroup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/nodeGroups", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pool-abc", body["name"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "op-1",
			"done":     false,
			"metadata": map[string]string{"nodeGroupId": "ng-1"},
		})
	}))
	defer server.Close()

	spec := &Spec{root: map[string]interface{}{}}
	spec.SetName("pool-abc")

	op, err := testClient(server).CreateNodeGroup(spec)
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)
	assert.Equal(t, "ng-1", op.NodeGroupID())
	assert.False(t, op.Done)
}

func TestUpdateNodeGroupSendsMask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/nodeGroups/ng-1", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, specPathSize, body["updateMask"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "op-2"})
	}))
	defer server.Close()

	spec := &Spec{root: map[string]interface{}{}}
	spec.SetSize(5)

	op, err := testClient(server).UpdateNodeGroup("ng-1", spec)
	require.NoError(t, err)
	assert.Equal(t, "op-2", op.ID)
}

func TestDeleteNodeGroupGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	op, err := testClient(server).DeleteNodeGroup("ng-1")
	require.NoError(t, err)
	assert.True(t, op.Done)
}

func TestGetOperationFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/op-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "op-1",
			"done":  true,
			"error": map[string]interface{}{"code": 9, "message": "quota exceeded"},
		})
	}))
	defer server.Close()

	op, err := testClient(server).GetOperation("op-1")
	require.NoError(t, err)
	assert.True(t, op.Done)
	require.True(t, op.Failed())
	assert.Equal(t, "quota exceeded", op.Error.Message)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "op-1", "done": true})
	}))
	defer server.Close()

	op, err := testClient(server).GetOperation("op-1")
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)
	assert.Equal(t, 3, attempts)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server).GetOperation("op-1")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestOperationNodeGroupID(t *testing.T) {
	op := &Operation{}
	assert.Equal(t, "", op.NodeGroupID())

	op.Response = &OperationResponse{ID: "ng-from-response"}
	assert.Equal(t, "ng-from-response", op.NodeGroupID())

	op.Metadata = &OperationMetadata{NodeGroupID: "ng-from-metadata"}
	assert.Equal(t, "ng-from-metadata", op.NodeGroupID())
}
