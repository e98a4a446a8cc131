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

// Package core wires the service together: database, cloud client,
// registry, cluster sync and the background pollers.
package core

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/cloud"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/mongodb"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/service"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/registry"
	"github.com/fuzzcloud/pool-manager/pkg/tool/kube"
	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
	mongotool "github.com/fuzzcloud/pool-manager/pkg/tool/mongo"
)

const mongoConnectTimeout = 10 * time.Second

var (
	clusterSync *service.ClusterSync
	pollers     *service.Pollers
)

// Start brings every collaborator up in dependency order. The caller
// serves the API only after Start returned without error.
func Start(ctx context.Context) error {
	if err := connectDatabase(ctx); err != nil {
		return err
	}

	tpl, err := cloud.LoadSpecTemplate(config.PoolSpecTemplate())
	if err != nil {
		return err
	}

	tokens, err := cloud.NewTokenProvider(
		config.CloudAPIUrlAuth(),
		config.CloudServiceAccountID(),
		config.CloudPublicKeyID(),
		config.CloudPrivateKeyFile(),
	)
	if err != nil {
		return err
	}

	reg := registry.New()
	bus := service.NewBus()
	service.Init(reg, bus, cloud.NewClient(tokens), tpl)

	if err := bus.Restore(ctx); err != nil {
		return err
	}

	if err := warmupRegistry(ctx, reg); err != nil {
		return err
	}

	clientset, err := kube.NewClientSet(config.KubeConfig())
	if err != nil {
		return err
	}

	clusterSync, err = service.StartClusterSync(ctx, clientset)
	if err != nil {
		return err
	}

	pollers, err = service.StartPollers()
	if err != nil {
		return err
	}

	return nil
}

// Stop shuts the background machinery down and persists what must not
// be lost.
func Stop(ctx context.Context) {
	if pollers != nil {
		if err := pollers.Stop(); err != nil {
			log.Errorf("stop pollers: %v", err)
		}
	}

	if clusterSync != nil {
		clusterSync.Stop()
	}

	if err := service.Events().Flush(ctx); err != nil {
		log.Errorf("flush pool events: %v", err)
	}

	if err := mongotool.Close(ctx); err != nil {
		log.Errorf("close mongodb connection: %v", err)
	}
}

func connectDatabase(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	opt := options.Client().ApplyURI(config.MongoURI())
	if username := config.MongoUsername(); username != "" {
		opt.SetAuth(options.Credential{
			Username: username,
			Password: config.MongoPassword(),
		})
	}

	mongotool.Init(connectCtx, opt)
	if err := mongotool.Ping(connectCtx); err != nil {
		return err
	}

	log.Infof("connected to mongodb database %s", config.MongoDatabase())

	return mongodb.NewPoolColl().EnsureIndex(ctx)
}

// warmupRegistry pre-creates a registry entry for every stored pool so
// that lookups never miss while the cluster sync is still catching up.
func warmupRegistry(ctx context.Context, reg *registry.Registry) error {
	pools, err := mongodb.NewPoolColl().ListAll(ctx)
	if err != nil {
		return err
	}

	for _, pool := range pools {
		if _, err := reg.CreatePool(pool.ID.Hex()); err != nil {
			return err
		}
	}

	log.Infof("registry warmed up with %d pools", len(pools))

	return nil
}
