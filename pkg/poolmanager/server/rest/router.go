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

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	poolhandler "github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/handler"
	"github.com/fuzzcloud/pool-manager/pkg/tool/metrics"
	mongotool "github.com/fuzzcloud/pool-manager/pkg/tool/mongo"
)

type injector interface {
	Inject(router *gin.RouterGroup)
}

func (s *engine) injectRouterGroup(router *gin.RouterGroup) {
	router.GET("/", func(c *gin.Context) {
		c.File(config.IndexFile())
	})

	router.GET("/api/health", func(c *gin.Context) {
		if err := mongotool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "reason": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	for name, r := range map[string]injector{
		"": new(poolhandler.Router),
	} {
		r.Inject(v1.Group(name))
	}
}
