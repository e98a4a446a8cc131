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
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/service"
	internalhandler "github.com/fuzzcloud/pool-manager/pkg/shared/handler"
	e "github.com/fuzzcloud/pool-manager/pkg/tool/errors"
)

const (
	defaultPageSize = 100
	minPageSize     = 10
	maxPageSize     = 200
)

func CreatePool(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "CreatePool"

	args := new(service.CreatePoolArgs)
	if err := c.ShouldBindJSON(args); err != nil {
		ctx.RespErr = e.ErrInvalidParam.AddErr(err)
		return
	}

	ctx.Resp, ctx.RespErr = service.CreatePool(c.Request.Context(), args, ctx.Logger)
	if ctx.RespErr == nil {
		ctx.StatusCode = http.StatusAccepted
	}
}

func ListPools(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "ListPools"

	pgNum, pgSize, err := pagination(c)
	if err != nil {
		ctx.RespErr = err
		return
	}

	ctx.Resp, ctx.RespErr = service.ListPools(c.Request.Context(), optionalUserID(c), pgNum, pgSize, ctx.Logger)
}

func CountPools(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "CountPools"

	pgSize, err := pageSize(c)
	if err != nil {
		ctx.RespErr = err
		return
	}

	ctx.Resp, ctx.RespErr = service.CountPools(c.Request.Context(), optionalUserID(c), pgSize, ctx.Logger)
}

func ListAvailablePools(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "ListAvailablePools"

	userID := c.Query("user_id")
	if userID == "" {
		ctx.RespErr = e.ErrInvalidParam.AddDesc("user_id is required")
		return
	}

	pgNum, pgSize, err := pagination(c)
	if err != nil {
		ctx.RespErr = err
		return
	}

	ctx.Resp, ctx.RespErr = service.ListAvailablePools(c.Request.Context(), userID, pgNum, pgSize, ctx.Logger)
}

func CountAvailablePools(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "CountAvailablePools"

	userID := c.Query("user_id")
	if userID == "" {
		ctx.RespErr = e.ErrInvalidParam.AddDesc("user_id is required")
		return
	}

	pgSize, err := pageSize(c)
	if err != nil {
		ctx.RespErr = err
		return
	}

	ctx.Resp, ctx.RespErr = service.CountAvailablePools(c.Request.Context(), userID, pgSize, ctx.Logger)
}

func LookupPool(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "LookupPool"

	name := c.Query("name")
	if name == "" {
		ctx.RespErr = e.ErrInvalidParam.AddDesc("name is required")
		return
	}

	ctx.Resp, ctx.RespErr = service.LookupPool(c.Request.Context(), name, c.Query("user_id"), ctx.Logger)
}

func GetPool(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "GetPool"

	ctx.Resp, ctx.RespErr = service.GetPool(c.Request.Context(), c.Param("id"), optionalUserID(c), ctx.Logger)
}

func GetAvailableResources(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "GetAvailableResources"

	ctx.Resp, ctx.RespErr = service.GetAvailableResources(c.Request.Context(), c.Param("id"), optionalUserID(c), ctx.Logger)
}

func UpdatePoolInfo(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "UpdatePoolInfo"

	args := new(service.UpdatePoolInfoArgs)
	if err := c.ShouldBindJSON(args); err != nil {
		ctx.RespErr = e.ErrInvalidParam.AddErr(err)
		return
	}

	ctx.Resp, ctx.RespErr = service.UpdatePoolInfo(c.Request.Context(), c.Param("id"), optionalUserID(c), args, ctx.Logger)
}

func UpdateNodeGroup(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "UpdateNodeGroup"

	args := new(models.NodeGroup)
	if err := c.ShouldBindJSON(args); err != nil {
		ctx.RespErr = e.ErrInvalidParam.AddErr(err)
		return
	}

	ctx.Resp, ctx.RespErr = service.UpdateNodeGroup(c.Request.Context(), c.Param("id"), args, ctx.Logger)
	if ctx.RespErr == nil {
		ctx.StatusCode = http.StatusAccepted
	}
}

func DeletePool(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Operation = "DeletePool"

	ctx.Resp, ctx.RespErr = service.DeletePool(c.Request.Context(), c.Param("id"), ctx.Logger)
	if ctx.RespErr == nil {
		ctx.StatusCode = http.StatusAccepted
	}
}

// pagination reads pg_num and pg_size with the documented defaults and
// bounds.
func pagination(c *gin.Context) (pgNum, pgSize int, err error) {
	pgNum, err = queryInt(c, "pg_num", 0)
	if err != nil {
		return 0, 0, err
	}
	if pgNum < 0 {
		return 0, 0, e.ErrInvalidParam.AddDesc("pg_num must not be negative")
	}

	pgSize, err = pageSize(c)
	if err != nil {
		return 0, 0, err
	}

	return pgNum, pgSize, nil
}

func pageSize(c *gin.Context) (int, error) {
	pgSize, err := queryInt(c, "pg_size", defaultPageSize)
	if err != nil {
		return 0, err
	}
	if pgSize < minPageSize || pgSize > maxPageSize {
		return 0, e.ErrInvalidParam.AddDesc(
			fmt.Sprintf("pg_size must be between %d and %d", minPageSize, maxPageSize))
	}

	return pgSize, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, e.ErrInvalidParam.AddDesc(fmt.Sprintf("%s must be an integer", name))
	}

	return v, nil
}

func optionalUserID(c *gin.Context) *string {
	if userID := c.Query("user_id"); userID != "" {
		return &userID
	}

	return nil
}
