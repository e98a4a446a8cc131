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

package mongo

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonoptions"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fuzzcloud/pool-manager/pkg/tool/log"
)

var once sync.Once
var client *mongo.Client

func Database(name string) *mongo.Database {
	return Client().Database(name)
}

func Client() *mongo.Client {
	if client == nil {
		panic("mongoDB connection is not initialized yet")
	}
	return client
}

// Init is a singleton, it will be initialized only once.
func Init(ctx context.Context, opt *options.ClientOptions) {
	once.Do(func() {
		nilSliceCodec := bsoncodec.NewSliceCodec(bsonoptions.SliceCodec().SetEncodeNilAsEmpty(true))
		tM := reflect.TypeOf(bson.M{})
		reg := bson.NewRegistryBuilder().
			RegisterTypeMapEntry(bsontype.EmbeddedDocument, tM).
			RegisterDefaultEncoder(reflect.Slice, nilSliceCodec).
			Build()
		opt.SetRegistry(reg)

		// If NONE of the cluster hosts is discoverable by its private host
		// name and only a single host is provided, topology auto-discovery
		// would leave us with no reachable server. Connect directly then.
		if len(opt.Hosts) == 1 {
			opt.SetDirect(true)
		}

		c, err := mongo.Connect(ctx, opt)
		if err != nil {
			log.Fatalf("Failed to initialize mongo db connection, err: %v", err)
		}
		client = c
	})
}

func Close(ctx context.Context) error {
	return client.Disconnect(ctx)
}

func Ping(ctx context.Context) error {
	return client.Ping(ctx, readpref.Primary())
}
