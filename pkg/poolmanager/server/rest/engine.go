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

	"github.com/fuzzcloud/pool-manager/pkg/config"
	middleware "github.com/fuzzcloud/pool-manager/pkg/middleware/gin"
	"github.com/fuzzcloud/pool-manager/pkg/setting"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

type engine struct {
	*gin.Engine
}

func NewEngine() *gin.Engine {
	if config.Mode() == setting.ProdMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &engine{Engine: gin.New()}

	s.injectMiddlewares()
	s.injectRouters()

	return s.Engine
}

func (s *engine) injectMiddlewares() {
	s.Use(middleware.RequestID())
	s.Use(middleware.RequestLog(log.Logger()))
	s.Use(middleware.RegisterRequest())
	s.Use(gin.Recovery())
}

func (s *engine) injectRouters() {
	s.injectRouterGroup(s.Group(""))

	s.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})
	s.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
	})
}
