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

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fuzzcloud/pool-manager/pkg/setting"
)

// UnsentMessage buffers a pool event that could not be delivered to any
// consumer before shutdown. Replayed on the next start.
type UnsentMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"event_id"      json:"event_id"`
	Kind      string             `bson:"kind"          json:"kind"`
	PoolID    string             `bson:"pool_id"       json:"pool_id"`
	Payload   string             `bson:"payload"       json:"payload"`
	CreatedAt string             `bson:"created_at"    json:"created_at"`
}

func (UnsentMessage) TableName() string {
	return setting.UnsentMessagesCollName
}
