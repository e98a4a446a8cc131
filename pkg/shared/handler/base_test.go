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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	e "github.com/fuzzcloud/pool-manager/pkg/tool/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, ctx *Context) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	JSONResponse(c, ctx)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *ErrorModel {
	t.Helper()

	model := new(ErrorModel)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), model))

	return model
}

func TestJSONResponseSuccess(t *testing.T) {
	ctx := NewContext(nil)
	ctx.Resp = map[string]string{"hello": "world"}

	w := respond(t, ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
}

func TestJSONResponseCustomStatus(t *testing.T) {
	ctx := NewContext(nil)
	ctx.Resp = map[string]string{"state": "scheduled"}
	ctx.StatusCode = http.StatusAccepted

	w := respond(t, ctx)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestJSONResponseNilBody(t *testing.T) {
	ctx := NewContext(nil)

	w := respond(t, ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestJSONResponseHTTPError(t *testing.T) {
	ctx := NewContext(nil)
	ctx.RespErr = e.ErrPoolNotFound.AddDesc("pool abc")

	w := respond(t, ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)

	model := decodeError(t, w)
	assert.Equal(t, e.CodePoolNotFound, model.Code)
	assert.Equal(t, "Pool was not found", model.Message)
	assert.Equal(t, []string{"pool abc"}, model.Details)
}

func TestJSONResponseUnknownError(t *testing.T) {
	ctx := NewContext(nil)
	ctx.RespErr = fmt.Errorf("something broke")

	w := respond(t, ctx)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	model := decodeError(t, w)
	assert.Equal(t, e.CodeInternalError, model.Code)
	// internal details never leak to the client
	assert.NotContains(t, model.Message, "something broke")
	assert.Empty(t, model.Details)
}

func TestJSONResponseDetailsNeverNull(t *testing.T) {
	ctx := NewContext(nil)
	ctx.RespErr = e.ErrPoolInTransition

	w := respond(t, ctx)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "[]", string(raw["details"]))
}
