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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/server"
	"github.com/fuzzcloud/pool-manager/pkg/setting"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

func main() {
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "bind flags: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(&log.Config{
		Level:       config.LogLevel(),
		Filename:    config.LogFile(),
		SendToFile:  config.SendLogToFile(),
		Development: config.Mode() != setting.ProdMode,
	})

	log.Infof("%s %s (commit %s, branch %s, built %s)",
		config.ServiceName(), config.ServiceVersion(),
		config.CommitID(), config.GitBranch(), config.BuildDate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
