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

package errors

// IHTTPError is implemented by errors that know how to render themselves
// as an API error response.
type IHTTPError interface {
	Status() int
	Code() string
	Error() string
	Details() []string
}

// HTTPError carries the http status together with the stable API error
// code and a human readable message.
type HTTPError struct {
	status  int
	code    string
	message string
	details []string
}

func NewHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{
		status:  status,
		code:    code,
		message: message,
	}
}

func (e *HTTPError) Status() int {
	return e.status
}

func (e *HTTPError) Code() string {
	return e.code
}

func (e *HTTPError) Error() string {
	return e.message
}

func (e *HTTPError) Details() []string {
	details := make([]string, len(e.details))
	copy(details, e.details)

	return details
}

// AddDesc returns a copy with an extra detail line, the registry entries
// themselves are shared and must not be mutated.
func (e *HTTPError) AddDesc(desc string) *HTTPError {
	err := *e
	err.details = append(e.Details(), desc)

	return &err
}

// AddErr attaches the cause as a detail line.
func (e *HTTPError) AddErr(cause error) *HTTPError {
	return e.AddDesc(cause.Error())
}
