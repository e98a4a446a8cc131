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
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"
)

// ParseCPUQuantity parses a kubernetes cpu quantity ("500m", "2") into
// millicores.
func ParseCPUQuantity(value string) (int64, error) {
	q, err := resource.ParseQuantity(value)
	if err != nil {
		return 0, fmt.Errorf("invalid cpu quantity %q: %v", value, err)
	}

	mi := q.MilliValue()
	if mi < 0 {
		return 0, fmt.Errorf("cpu quantity %q must not be negative", value)
	}

	return mi, nil
}

// ParseRAMQuantity parses a kubernetes memory quantity ("512Mi", "2Gi")
// into MiB.
func ParseRAMQuantity(value string) (int64, error) {
	q, err := resource.ParseQuantity(value)
	if err != nil {
		return 0, fmt.Errorf("invalid ram quantity %q: %v", value, err)
	}

	b := q.Value()
	if b < 0 {
		return 0, fmt.Errorf("ram quantity %q must not be negative", value)
	}

	return b / (1 << 20), nil
}
