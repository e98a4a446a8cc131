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

package httpclient

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a thin wrapper around resty which normalizes non-2xx
// responses into *Error values.
type Client struct {
	*resty.Client

	Host    string
	BaseURI string
}

func New(cfs ...ClientFunc) *Client {
	c := &Client{
		Client: resty.New(),
	}

	c.Client.SetTimeout(30 * time.Second)

	for _, cf := range cfs {
		cf(c)
	}

	c.Client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if res.IsError() {
			return NewErrorFromRestyResponse(res)
		}

		return nil
	})

	return c
}

func (c *Client) Get(url string, rfs ...RequestFunc) (*resty.Response, error) {
	return c.request(resty.MethodGet, url, rfs...)
}

func (c *Client) Post(url string, rfs ...RequestFunc) (*resty.Response, error) {
	return c.request(resty.MethodPost, url, rfs...)
}

func (c *Client) Put(url string, rfs ...RequestFunc) (*resty.Response, error) {
	return c.request(resty.MethodPut, url, rfs...)
}

func (c *Client) Patch(url string, rfs ...RequestFunc) (*resty.Response, error) {
	return c.request(resty.MethodPatch, url, rfs...)
}

func (c *Client) Delete(url string, rfs ...RequestFunc) (*resty.Response, error) {
	return c.request(resty.MethodDelete, url, rfs...)
}

func (c *Client) request(method, url string, rfs ...RequestFunc) (*resty.Response, error) {
	req := c.R()
	for _, rf := range rfs {
		rf(req)
	}

	url = fmt.Sprintf("%s%s", c.BaseURI, url)

	return req.Execute(method, url)
}
