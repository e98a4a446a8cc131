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
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/service"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

// heartbeats keep proxies from closing an otherwise quiet stream
const heartbeatInterval = 30 * time.Second

// EventStream pushes pool change events to the client as server sent
// events until the client goes away.
func EventStream(c *gin.Context) {
	bus := service.Events()
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	log.Debugf("event stream subscriber %s connected from %s", id, c.ClientIP())
	defer log.Debugf("event stream subscriber %s disconnected", id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
