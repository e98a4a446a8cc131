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

import "time"

type ClientFunc func(*Client)

func SetHostURL(url string) ClientFunc {
	return func(c *Client) {
		c.Client.SetHostURL(url)
		c.Host = url
	}
}

func SetBaseURI(uri string) ClientFunc {
	return func(c *Client) {
		c.BaseURI = uri
	}
}

func SetAuthScheme(scheme string) ClientFunc {
	return func(c *Client) {
		c.Client.SetAuthScheme(scheme)
	}
}

func SetAuthToken(token string) ClientFunc {
	return func(c *Client) {
		c.Client.SetAuthToken(token)
	}
}

func SetTimeout(timeout time.Duration) ClientFunc {
	return func(c *Client) {
		c.Client.SetTimeout(timeout)
	}
}
