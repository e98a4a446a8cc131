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
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/poolmanager/core/pool/repository/models"
	mongotool "github.com/fuzzcloud/pool-manager/pkg/tool/mongo"
)

type PoolColl struct {
	*mongo.Collection

	coll string
}

func NewPoolColl() *PoolColl {
	name := models.Pool{}.TableName()
	return &PoolColl{
		Collection: mongotool.Database(config.MongoDatabase()).Collection(name),
		coll:       name,
	}
}

func (c *PoolColl) GetCollectionName() string {
	return c.coll
}

func (c *PoolColl) EnsureIndex(ctx context.Context) error {
	mod := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	_, err := c.Indexes().CreateOne(ctx, mod)

	return err
}

// PoolListOption filters pool queries. A nil UserID means no owner
// filter, the value "shared" selects pools without an owner.
type PoolListOption struct {
	PageNum  int
	PageSize int
	UserID   *string
}

func (c *PoolColl) Create(ctx context.Context, obj *models.Pool) error {
	if obj == nil {
		return fmt.Errorf("nil object")
	}

	res, err := c.InsertOne(ctx, obj)
	if err != nil {
		return err
	}
	obj.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (c *PoolColl) GetByID(ctx context.Context, idString string) (*models.Pool, error) {
	id, err := primitive.ObjectIDFromHex(idString)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	resp := new(models.Pool)
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *PoolColl) GetByName(ctx context.Context, name, userID string) (*models.Pool, error) {
	query := bson.M{"name": name}
	query["user_id"] = ownerFilterValue(userID)

	resp := new(models.Pool)
	if err := c.FindOne(ctx, query).Decode(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// Update replaces the whole pool document.
func (c *PoolColl) Update(ctx context.Context, obj *models.Pool) error {
	if obj == nil {
		return fmt.Errorf("nil object")
	}

	_, err := c.ReplaceOne(ctx, bson.M{"_id": obj.ID}, obj)

	return err
}

// UpdateFields patches selected document fields.
func (c *PoolColl) UpdateFields(ctx context.Context, idString string, fields bson.M) error {
	id, err := primitive.ObjectIDFromHex(idString)
	if err != nil {
		return fmt.Errorf("invalid id")
	}

	_, err = c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})

	return err
}

func (c *PoolColl) Delete(ctx context.Context, idString string) error {
	id, err := primitive.ObjectIDFromHex(idString)
	if err != nil {
		return fmt.Errorf("invalid id")
	}

	_, err = c.DeleteOne(ctx, bson.M{"_id": id})

	return err
}

func (c *PoolColl) Count(ctx context.Context, userID *string) (int64, error) {
	query := bson.M{}
	if userID != nil {
		query["user_id"] = ownerFilterValue(*userID)
	}

	return c.CountDocuments(ctx, query)
}

func (c *PoolColl) List(ctx context.Context, opt *PoolListOption) ([]*models.Pool, error) {
	query := bson.M{}
	if opt.UserID != nil {
		query["user_id"] = ownerFilterValue(*opt.UserID)
	}

	return c.listQuery(ctx, query, opt)
}

// CountAvailable counts pools the user may run fuzzers in: their own
// plus the shared ones.
func (c *PoolColl) CountAvailable(ctx context.Context, userID string) (int64, error) {
	return c.CountDocuments(ctx, availableQuery(userID))
}

func (c *PoolColl) ListAvailable(ctx context.Context, userID string, opt *PoolListOption) ([]*models.Pool, error) {
	return c.listQuery(ctx, availableQuery(userID), opt)
}

// ListExpired returns pools past their expiration date with no pending
// operation. now is an RFC3339 date; stored dates compare
// lexicographically.
func (c *PoolColl) ListExpired(ctx context.Context, now string) ([]*models.Pool, error) {
	query := bson.M{
		"exp_date":  bson.M{"$nin": bson.A{nil, ""}, "$lt": now},
		"operation": nil,
	}

	return c.findAll(ctx, query)
}

// ListOperationsScheduled returns pools whose operation is due but has
// not been submitted to the cloud yet.
func (c *PoolColl) ListOperationsScheduled(ctx context.Context, now string) ([]*models.Pool, error) {
	query := bson.M{
		"operation":                    bson.M{"$ne": nil},
		"operation.cloud_operation_id": bson.M{"$in": bson.A{nil, ""}},
		"operation.error_msg":          bson.M{"$in": bson.A{nil, ""}},
		"operation.scheduled_for":      bson.M{"$lt": now},
	}

	return c.findAll(ctx, query)
}

// ListOperationsInProgress returns pools with an operation running in
// the cloud.
func (c *PoolColl) ListOperationsInProgress(ctx context.Context) ([]*models.Pool, error) {
	query := bson.M{
		"operation.cloud_operation_id": bson.M{"$nin": bson.A{nil, ""}},
		"operation.error_msg":          bson.M{"$in": bson.A{nil, ""}},
	}

	return c.findAll(ctx, query)
}

// ListNoOperation returns pools with no pending operation.
func (c *PoolColl) ListNoOperation(ctx context.Context) ([]*models.Pool, error) {
	return c.findAll(ctx, bson.M{"operation": nil})
}

func (c *PoolColl) ListAll(ctx context.Context) ([]*models.Pool, error) {
	return c.findAll(ctx, bson.M{})
}

func (c *PoolColl) listQuery(ctx context.Context, query bson.M, opt *PoolListOption) ([]*models.Pool, error) {
	findOpt := options.Find().
		SetSort(bson.M{"name": -1}).
		SetSkip(int64(opt.PageNum * opt.PageSize)).
		SetLimit(int64(opt.PageSize))

	cursor, err := c.Collection.Find(ctx, query, findOpt)
	if err != nil {
		return nil, err
	}

	resp := make([]*models.Pool, 0)
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *PoolColl) findAll(ctx context.Context, query bson.M) ([]*models.Pool, error) {
	cursor, err := c.Collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	resp := make([]*models.Pool, 0)
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// ownerFilterValue maps the API user_id filter onto the stored field:
// the sentinel "shared" selects documents without an owner, which mongo
// matches with nil for both absent and null fields.
func ownerFilterValue(userID string) interface{} {
	if userID == "shared" || userID == "" {
		return nil
	}

	return userID
}

func availableQuery(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"user_id": nil},
		bson.M{"user_id": userID},
	}}
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return err == mongo.ErrNoDocuments
}
