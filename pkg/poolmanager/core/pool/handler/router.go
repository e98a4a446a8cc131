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

import "github.com/gin-gonic/gin"

type Router struct{}

func (*Router) Inject(router *gin.RouterGroup) {
	pools := router.Group("pools")
	{
		pools.POST("", CreatePool)
		pools.GET("", ListPools)
		pools.GET("/count", CountPools)
		pools.GET("/available", ListAvailablePools)
		pools.GET("/available/count", CountAvailablePools)
		pools.GET("/lookup", LookupPool)
		pools.GET("/event-stream", EventStream)
		pools.GET("/:id", GetPool)
		pools.GET("/:id/resources/available", GetAvailableResources)
		pools.PATCH("/:id", UpdatePoolInfo)
		pools.PUT("/:id/node_group", UpdateNodeGroup)
		pools.DELETE("/:id", DeletePool)
	}
}
