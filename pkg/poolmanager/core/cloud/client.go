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

// Package cloud talks to the managed kubernetes API of the cloud
// provider: node group CRUD plus polling of the long running operations
// those calls spawn.
package cloud

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/fuzzcloud/pool-manager/pkg/config"
	"github.com/fuzzcloud/pool-manager/pkg/tool/httpclient"
)

// Operation is the cloud side long running operation envelope.
type Operation struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`

	Error *OperationError `json:"error,omitempty"`

	// Response carries the created resource once Done is true. Only
	// the id is of interest here.
	Response *OperationResponse `json:"response,omitempty"`

	Metadata *OperationMetadata `json:"metadata,omitempty"`
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OperationResponse struct {
	ID string `json:"id"`
}

type OperationMetadata struct {
	NodeGroupID string `json:"nodeGroupId"`
}

// Failed reports whether the operation finished with an error.
func (o *Operation) Failed() bool {
	return o.Done && o.Error != nil
}

// NodeGroupID returns the id of the node group the operation acts on,
// whichever envelope field the API put it in.
func (o *Operation) NodeGroupID() string {
	if o.Metadata != nil && o.Metadata.NodeGroupID != "" {
		return o.Metadata.NodeGroupID
	}
	if o.Response != nil {
		return o.Response.ID
	}

	return ""
}

// Client calls the node group API. Every request is authorized with a
// fresh token from the provider and retried with exponential backoff on
// transient failures.
type Client struct {
	nodeGroupsURL string
	operationsURL string

	tokens *TokenProvider
	client *httpclient.Client
}

func NewClient(tokens *TokenProvider) *Client {
	return &Client{
		nodeGroupsURL: config.CloudAPIUrlNodeGroups(),
		operationsURL: config.CloudAPIUrlOperations(),
		tokens:        tokens,
		client:        httpclient.New(),
	}
}

// CreateNodeGroup submits a node group creation and returns the spawned
// operation.
func (c *Client) CreateNodeGroup(spec *Spec) (*Operation, error) {
	op := new(Operation)
	err := c.retry(func() error {
		token, err := c.tokens.Token()
		if err != nil {
			return backoff.Permanent(err)
		}

		_, err = c.client.Post(c.nodeGroupsURL,
			httpclient.SetBearerToken(token),
			httpclient.SetBody(spec.AsMap()),
			httpclient.SetResult(op),
		)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "create node group")
	}

	return op, nil
}

// UpdateNodeGroup patches an existing node group with the fields the
// spec setters touched.
func (c *Client) UpdateNodeGroup(nodeGroupID string, spec *Spec) (*Operation, error) {
	op := new(Operation)
	err := c.retry(func() error {
		token, err := c.tokens.Token()
		if err != nil {
			return backoff.Permanent(err)
		}

		_, err = c.client.Patch(fmt.Sprintf("%s/%s", c.nodeGroupsURL, nodeGroupID),
			httpclient.SetBearerToken(token),
			httpclient.SetBody(spec.AsUpdate()),
			httpclient.SetResult(op),
		)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "update node group")
	}

	return op, nil
}

func (c *Client) DeleteNodeGroup(nodeGroupID string) (*Operation, error) {
	op := new(Operation)
	err := c.retry(func() error {
		token, err := c.tokens.Token()
		if err != nil {
			return backoff.Permanent(err)
		}

		_, err = c.client.Delete(fmt.Sprintf("%s/%s", c.nodeGroupsURL, nodeGroupID),
			httpclient.SetBearerToken(token),
			httpclient.SetResult(op),
		)
		if httpclient.IsNotFound(err) {
			// already gone, treat as a completed operation
			op.Done = true
			return nil
		}

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "delete node group")
	}

	return op, nil
}

// GetOperation fetches the current state of a long running operation.
func (c *Client) GetOperation(operationID string) (*Operation, error) {
	op := new(Operation)
	err := c.retry(func() error {
		token, err := c.tokens.Token()
		if err != nil {
			return backoff.Permanent(err)
		}

		_, err = c.client.Get(fmt.Sprintf("%s/%s", c.operationsURL, operationID),
			httpclient.SetBearerToken(token),
			httpclient.SetResult(op),
		)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "get operation")
	}

	return op, nil
}

func (c *Client) retry(fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}

		return err
	}, bo)
}

// retryable reports whether the request may be repeated: server side
// errors and transport failures are, client errors are not.
func retryable(err error) bool {
	var respErr *httpclient.Error
	if errors.As(err, &respErr) {
		return respErr.Status >= 500 || respErr.Status == 429
	}

	return true
}
