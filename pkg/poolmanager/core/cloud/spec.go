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
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	specPathName   = "name"
	specPathSize   = "scalePolicy.fixedScale.size"
	specPathCores  = "nodeTemplate.resourcesSpec.cores"
	specPathMemory = "nodeTemplate.resourcesSpec.memory"
	specPathLabels = "nodeTemplate.labels"
	specPathTaints = "nodeTemplate.taints"
)

// requiredSpecPaths must exist in the template file so that the setters
// have a known shape to write into.
var requiredSpecPaths = []string{
	specPathName,
	specPathSize,
	specPathCores,
	specPathMemory,
}

// SpecTemplate is the node group spec skeleton loaded from the template
// file. Operator supplied fields (zone, subnet, disk, platform) pass
// through untouched; the setters on Spec fill in the per pool fields.
type SpecTemplate struct {
	root map[string]interface{}
}

func LoadSpecTemplate(path string) (*SpecTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read spec template")
	}

	root := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parse spec template")
	}

	for _, path := range requiredSpecPaths {
		if _, ok := getPath(root, path); !ok {
			return nil, fmt.Errorf("spec template misses required field %q", path)
		}
	}

	return &SpecTemplate{root: root}, nil
}

// NewSpec returns a fresh deep copy of the template ready to be filled
// in.
func (t *SpecTemplate) NewSpec() *Spec {
	return &Spec{root: deepCopyMap(t.root)}
}

// Spec is a single node group specification derived from the template.
// Not safe for concurrent use.
type Spec struct {
	root map[string]interface{}

	// updateMask collects the template paths touched by the setters so
	// that update requests only send changed fields.
	updateMask []string
}

func (s *Spec) SetName(name string) *Spec {
	return s.set(specPathName, name)
}

func (s *Spec) SetSize(count int) *Spec {
	return s.set(specPathSize, count)
}

// SetNodeCPU sets the per node core count.
func (s *Spec) SetNodeCPU(cores int) *Spec {
	return s.set(specPathCores, cores)
}

// SetNodeRAM sets the per node memory in GiB; the wire format wants
// bytes.
func (s *Spec) SetNodeRAM(gib int) *Spec {
	return s.set(specPathMemory, int64(gib)*1024*1024*1024)
}

// SetLabel upserts a node label, keeping labels the operator put into
// the template.
func (s *Spec) SetLabel(key, value string) *Spec {
	labels, ok := getPath(s.root, specPathLabels)
	m, isMap := labels.(map[string]interface{})
	if !ok || !isMap {
		m = map[string]interface{}{}
	}
	m[key] = value

	return s.set(specPathLabels, m)
}

// SetTaint appends a node taint unless one with the same key exists.
func (s *Spec) SetTaint(key, value, effect string) *Spec {
	var taints []interface{}
	if raw, ok := getPath(s.root, specPathTaints); ok {
		taints, _ = raw.([]interface{})
	}

	for _, raw := range taints {
		t, ok := raw.(map[string]interface{})
		if ok && t["key"] == key {
			return s
		}
	}

	taints = append(taints, map[string]interface{}{
		"key":    key,
		"value":  value,
		"effect": effect,
	})

	return s.set(specPathTaints, taints)
}

// AsMap returns the spec body for a create request.
func (s *Spec) AsMap() map[string]interface{} {
	return s.root
}

// AsUpdate returns the body for an update request: only the fields
// touched by the setters, plus the update mask naming them.
func (s *Spec) AsUpdate() map[string]interface{} {
	body := map[string]interface{}{}
	for _, path := range s.updateMask {
		if v, ok := getPath(s.root, path); ok {
			setPath(body, path, v)
		}
	}
	body["updateMask"] = strings.Join(s.updateMask, ",")

	return body
}

func (s *Spec) set(path string, value interface{}) *Spec {
	setPath(s.root, path, value)

	for _, p := range s.updateMask {
		if p == path {
			return s
		}
	}
	s.updateMask = append(s.updateMask, path)

	return s
}

func getPath(root map[string]interface{}, path string) (interface{}, bool) {
	keys := strings.Split(path, ".")
	cur := root
	for i, key := range keys {
		v, ok := cur[key]
		if !ok {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}

		cur, ok = v.(map[string]interface{})
		if !ok {
			return nil, false
		}
	}

	return nil, false
}

func setPath(root map[string]interface{}, path string, value interface{}) {
	keys := strings.Split(path, ".")
	cur := root
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}

func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}

	return dst
}

func deepCopyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(t)
	case []interface{}:
		cp := make([]interface{}, len(t))
		for i, e := range t {
			cp[i] = deepCopyValue(e)
		}
		return cp
	default:
		return v
	}
}
