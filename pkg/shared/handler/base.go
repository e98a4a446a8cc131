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
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	e "github.com/fuzzcloud/pool-manager/pkg/tool/errors"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

// Context carries the state of one API operation from the handler into
// the deferred response writer.
type Context struct {
	Logger    *zap.SugaredLogger
	Operation string
	Resp      interface{}
	RespErr   error
	// StatusCode overrides the success status, e.g. 202 for operations
	// that only schedule work. Zero means 200.
	StatusCode int
}

func NewContext(c *gin.Context) *Context {
	return &Context{
		Logger: log.SugaredLogger(),
	}
}

// ErrorModel is the error envelope of every non-2xx API response.
type ErrorModel struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// JSONResponse renders ctx into the gin context. Handlers install it with
// defer right after NewContext.
func JSONResponse(c *gin.Context, ctx *Context) {
	if ctx.RespErr != nil {
		httpErr, ok := ctx.RespErr.(*e.HTTPError)
		if !ok {
			logOperationError(ctx, e.ErrInternalError)
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorModel(e.ErrInternalError))
			return
		}

		logOperationError(ctx, httpErr)
		c.AbortWithStatusJSON(httpErr.Status(), errorModel(httpErr))
		return
	}

	logOperationSuccess(ctx)

	status := ctx.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	// the API never returns a null body on success
	if ctx.Resp == nil {
		c.JSON(status, struct{}{})
		return
	}

	c.JSON(status, ctx.Resp)
}

func errorModel(err *e.HTTPError) *ErrorModel {
	details := err.Details()
	if details == nil {
		details = []string{}
	}

	return &ErrorModel{
		Code:    err.Code(),
		Message: err.Error(),
		Details: details,
	}
}

func logOperationSuccess(ctx *Context) {
	if ctx.Operation == "" {
		return
	}
	ctx.Logger.Infof("[OK] Operation='%s'", ctx.Operation)
}

func logOperationError(ctx *Context, err *e.HTTPError) {
	if ctx.Operation == "" {
		return
	}

	reason := err.Error()
	if details := err.Details(); len(details) > 0 {
		reason = reason + ": " + strings.Join(details, "; ")
	}
	ctx.Logger.Infof("[FAILED] Operation='%s', reason='%s'", ctx.Operation, reason)
}
