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

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	mongotool "github.com/fuzzcloud/pool-manager/pkg/tool/mongo"
)

type UnsentMessageColl struct {
	*mongo.Collection

	coll string
}

func NewUnsentMessageColl() *UnsentMessageColl {
	name := models.UnsentMessage{}.TableName()
	return &UnsentMessageColl{
		Collection: mongotool.Database(config.MongoDatabase()).Collection(name),
		coll:       name,
	}
}

func (c *UnsentMessageColl) GetCollectionName() string {
	return c.coll
}

func (c *UnsentMessageColl) SaveAll(ctx context.Context, msgs []*models.UnsentMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		docs = append(docs, msg)
	}

	_, err := c.InsertMany(ctx, docs)

	return err
}

// LoadAndClear drains the buffered messages in creation order.
func (c *UnsentMessageColl) LoadAndClear(ctx context.Context) ([]*models.UnsentMessage, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	resp := make([]*models.UnsentMessage, 0)
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}

	if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, err
	}

	return resp, nil
}
