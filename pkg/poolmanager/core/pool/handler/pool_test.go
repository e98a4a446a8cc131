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

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func queryContext(t *testing.T, query string) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/pools"+query, nil)

	return c
}

func TestPaginationDefaults(t *testing.T) {
	pgNum, pgSize, err := pagination(queryContext(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 0, pgNum)
	assert.Equal(t, defaultPageSize, pgSize)
}

func TestPaginationExplicit(t *testing.T) {
	pgNum, pgSize, err := pagination(queryContext(t, "?pg_num=2&pg_size=50"))
	require.NoError(t, err)
	assert.Equal(t, 2, pgNum)
	assert.Equal(t, 50, pgSize)
}

func TestPaginationBounds(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "negative page", query: "?pg_num=-1"},
		{name: "page size too small", query: "?pg_size=5"},
		{name: "page size too big", query: "?pg_size=500"},
		{name: "not a number", query: "?pg_num=abc"},
		{name: "size not a number", query: "?pg_size=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pagination(queryContext(t, tt.query))
			assert.Error(t, err)
		})
	}
}

func TestRouterRoutes(t *testing.T) {
	engine := gin.New()
	(&Router{}).Inject(engine.Group("/api/v1"))

	type route struct{ method, path string }
	registered := map[route]bool{}
	for _, r := range engine.Routes() {
		registered[route{r.Method, r.Path}] = true
	}

	// metadata patches address the pool itself
	assert.True(t, registered[route{http.MethodPatch, "/api/v1/pools/:id"}])
	assert.False(t, registered[route{http.MethodPatch, "/api/v1/pools/:id/info"}])

	assert.True(t, registered[route{http.MethodPut, "/api/v1/pools/:id/node_group"}])
	assert.True(t, registered[route{http.MethodDelete, "/api/v1/pools/:id"}])
}

func TestPageSize(t *testing.T) {
	pgSize, err := pageSize(queryContext(t, ""))
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, pgSize)

	pgSize, err = pageSize(queryContext(t, "?pg_size=25"))
	require.NoError(t, err)
	assert.Equal(t, 25, pgSize)

	_, err = pageSize(queryContext(t, "?pg_size=5"))
	assert.Error(t, err)
}

func TestOptionalUserID(t *testing.T) {
	assert.Nil(t, optionalUserID(queryContext(t, "")))

	got := optionalUserID(queryContext(t, "?user_id=user-1"))
	require.NotNil(t, got)
	assert.Equal(t, "user-1", *got)
}
