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

	"github.com/go-resty/resty/v2"
)

// Error is returned for any response with a non-2xx status code.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func NewErrorFromRestyResponse(res *resty.Response) *Error {
	return &Error{
		Status:  res.StatusCode(),
		Message: string(res.Body()),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an http 404 error.
func IsNotFound(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Status == 404
}
