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
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRe = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseDuration parses durations in the deployment configuration format:
// a positive integer followed by one of s, m, h, d. Usage: 30s, 5m, 2h, 1d.
func ParseDuration(value string) (time.Duration, error) {
	m := durationRe.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q, usage: 30s, 5m, 2h, 1d", value)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %v", value, err)
	}

	units := map[string]time.Duration{
		"s": time.Second,
		"m": time.Minute,
		"h": time.Hour,
		"d": 24 * time.Hour,
	}

	return time.Duration(n) * units[m[2]], nil
}

// RFC3339 renders a date the way pool documents store it, always in UTC
// with a trailing Z.
func RFC3339(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func FromRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ValidateRFC3339 accepts only UTC dates with the Z suffix, matching what
// the API has always returned. Offsets like +03:00 are rejected so that
// stored dates stay lexicographically comparable.
func ValidateRFC3339(s string) error {
	if !strings.HasSuffix(s, "Z") {
		return fmt.Errorf("date must end with 'Z'")
	}

	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return fmt.Errorf("not a valid rfc3339 date: %v", err)
	}

	return nil
}
