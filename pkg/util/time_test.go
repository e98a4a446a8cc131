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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "30s", want: 30 * time.Second},
		{input: "5m", want: 5 * time.Minute},
		{input: "2h", want: 2 * time.Hour},
		{input: "1d", want: 24 * time.Hour},
		{input: "0s", want: 0},
		{input: "", wantErr: true},
		{input: "5", wantErr: true},
		{input: "5w", wantErr: true},
		{input: "-5m", wantErr: true},
		{input: "1.5h", wantErr: true},
		{input: "5m30s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRFC3339(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	ts := time.Date(2022, 4, 15, 13, 30, 45, 0, loc)

	assert.Equal(t, "2022-04-15T10:30:45Z", RFC3339(ts))

	back, err := FromRFC3339(RFC3339(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(back))
}

func TestValidateRFC3339(t *testing.T) {
	assert.NoError(t, ValidateRFC3339("2022-04-15T10:30:45Z"))

	assert.Error(t, ValidateRFC3339(""))
	assert.Error(t, ValidateRFC3339("2022-04-15"))
	assert.Error(t, ValidateRFC3339("2022-04-15T10:30:45+03:00"))
	assert.Error(t, ValidateRFC3339("not-a-date-Z"))
}
