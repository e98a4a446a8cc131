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

package cloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `
name: placeholder
scalePolicy:
  fixedScale:
    size: 1
nodeTemplate:
  platformId: standard-v3
  resourcesSpec:
    cores: 2
    memory: 4294967296
  labels:
    env: fuzzing
  taints: []
`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadSpecTemplate(t *testing.T) {
	tpl, err := LoadSpecTemplate(writeTemplate(t, testTemplate))
	require.NoError(t, err)
	require.NotNil(t, tpl)
}

func TestLoadSpecTemplateMissingField(t *testing.T) {
	_, err := LoadSpecTemplate(writeTemplate(t, "name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scalePolicy.fixedScale.size")
}

func TestLoadSpecTemplateMissingFile(t *testing.T) {
	_, err := LoadSpecTemplate(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSpecSetters(t *testing.T) {
	tpl, err := LoadSpecTemplate(writeTemplate(t, testTemplate))
	require.NoError(t, err)

	spec := tpl.NewSpec().
		SetName("pool-abc").
		SetSize(3).
		SetNodeCPU(8).
		SetNodeRAM(16)

	body := spec.AsMap()
	v, ok := getPath(body, specPathName)
	require.True(t, ok)
	assert.Equal(t, "pool-abc", v)

	v, _ = getPath(body, specPathSize)
	assert.Equal(t, 3, v)

	v, _ = getPath(body, specPathCores)
	assert.Equal(t, 8, v)

	v, _ = getPath(body, specPathMemory)
	assert.Equal(t, int64(16)*1024*1024*1024, v)

	// operator supplied fields pass through
	v, ok = getPath(body, "nodeTemplate.platformId")
	require.True(t, ok)
	assert.Equal(t, "standard-v3", v)
}

func TestSpecCopyIsIndependent(t *testing.T) {
	tpl, err := LoadSpecTemplate(writeTemplate(t, testTemplate))
	require.NoError(t, err)

	first := tpl.NewSpec().SetName("first")
	second := tpl.NewSpec()

	v, _ := getPath(second.AsMap(), specPathName)
	assert.Equal(t, "placeholder", v)

	v, _ = getPath(first.AsMap(), specPathName)
	assert.Equal(t, "first", v)
}

func TestSpecSetLabelKeepsTemplateLabels(t *testing.T) {
	tpl, err := LoadSpecTemplate(writeTemplate(t, testTemplate))
	require.NoError(t, err)

	spec := tpl.NewSpec().SetLabel("pool-id", "abc")

	raw, ok := getPath(spec.AsMap(), specPathLabels)
	require.True(t, ok)
	labels, ok := raw.(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "abc", labels["pool-id"])
	assert.Equal(t, "fuzzing", labels["env"])
}

func TestSpecSetTaintDeduplicates(t *testing.T) {
	tpl, err := LoadSpecTemplate(writeTemplate(t, testTemplate))
	require.NoError(t, err)

	spec := tpl.NewSpec().
		SetTaint("dedicated", "fuzzer", "NO_SCHEDULE").
		SetTaint("dedicated", "other", "NO_EXECUTE")

	raw, ok := getPath(spec.AsMap(), specPathTaints)
	require.True(t, ok)
	taints, ok := raw.([]interface{})
	require.True(t, ok)
	require.Len(t, taints, 1)

	taint := taints[0].(map[string]interface{})
	assert.Equal(t, "fuzzer", taint["value"])
}

func TestSpecAsUpdate(t *testing.T) {
	tpl, err := LoadSpecTemplate(writeTemplate(t, testTemplate))
	require.NoError(t, err)

	spec := tpl.NewSpec().
		SetSize(5).
		SetNodeCPU(4).
		SetSize(6) // repeated setter must not duplicate the mask entry

	body := spec.AsUpdate()
	assert.Equal(t, "scalePolicy.fixedScale.size,nodeTemplate.resourcesSpec.cores", body["updateMask"])

	v, ok := getPath(body, specPathSize)
	require.True(t, ok)
	assert.Equal(t, 6, v)

	// untouched fields are not part of the update
	_, ok = getPath(body, specPathName)
	assert.False(t, ok)
	_, ok = getPath(body, specPathMemory)
	assert.False(t, ok)
}
