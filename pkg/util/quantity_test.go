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

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUQuantity(t *testing.T) {
	got, err := ParseCPUQuantity("500m")
	require.NoError(t, err)
	assert.Equal(t, int64(500), got)

	got, err = ParseCPUQuantity("2")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got)

	_, err = ParseCPUQuantity("lots")
	assert.Error(t, err)

	_, err = ParseCPUQuantity("-1")
	assert.Error(t, err)
}

func TestParseRAMQuantity(t *testing.T) {
	got, err := ParseRAMQuantity("512Mi")
	require.NoError(t, err)
	assert.Equal(t, int64(512), got)

	got, err = ParseRAMQuantity("2Gi")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), got)

	_, err = ParseRAMQuantity("plenty")
	assert.Error(t, err)

	_, err = ParseRAMQuantity("-1Gi")
	assert.Error(t, err)
}
