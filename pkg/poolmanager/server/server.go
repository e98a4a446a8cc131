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

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/server/rest"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

// Serve starts the core machinery and the REST API, then blocks until
// ctx is cancelled. Shutdown is graceful within the configured timeout.
func Serve(ctx context.Context) error {
	log.Info("app start")

	if err := core.Start(ctx); err != nil {
		return err
	}

	engine := rest.NewEngine()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port()),
		Handler: engine,
	}

	stopChan := make(chan struct{})
	go func() {
		defer close(stopChan)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("failed to stop server, error: %s", err)
		}

		core.Stop(shutdownCtx)
	}()

	log.Infof("listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-stopChan

	log.Info("app stop")

	return nil
}
