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

package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/fuzzcloud/pool-manager/pkg/setting"
	"github.com/fuzzcloud/pool-manager/pkg/util"
)

var requiredVars = []string{
	setting.ENVDBUrl,
	setting.ENVDBUsername,
	setting.ENVDBPassword,
	setting.ENVDBName,
	setting.ENVCloudAPIUrlOperations,
	setting.ENVCloudAPIUrlNodeGroups,
	setting.ENVCloudAPIUrlAuth,
	setting.ENVCloudServiceAccountID,
	setting.ENVCloudPublicKeyID,
	setting.ENVCloudPrivateKeyFile,
}

var durationVars = []string{
	setting.ENVShutdownTimeout,
	setting.ENVOperationDelayCreate,
	setting.ENVOperationDelayUpdate,
	setting.ENVOperationDelayDelete,
	setting.ENVPollIntervalCloudOperations,
	setting.ENVPollIntervalScheduledOperations,
	setting.ENVPollIntervalExpiredPools,
}

// buildMetadataVars may be empty in dev and test modes, production
// deployments must provide all of them.
var buildMetadataVars = []string{
	setting.ENVServiceName,
	setting.ENVServiceVersion,
	setting.ENVCommitID,
	setting.ENVCommitDate,
	setting.ENVBuildDate,
	setting.ENVGitBranch,
}

// Validate checks the process environment before any component starts, so
// that a misconfigured deployment fails fast instead of surfacing errors
// from the middle of a pool operation.
func Validate() error {
	switch mode := Mode(); mode {
	case setting.DevMode, setting.ProdMode, setting.TestMode:
	default:
		return fmt.Errorf("variable %s: unknown mode %q", setting.ENVEnvironment, mode)
	}

	for _, key := range requiredVars {
		if viper.GetString(key) == "" {
			return fmt.Errorf("variable %s must be set", key)
		}
	}

	for _, key := range durationVars {
		if _, err := util.ParseDuration(viper.GetString(key)); err != nil {
			return fmt.Errorf("variable %s: %v", key, err)
		}
	}

	if _, err := util.ParseCPUQuantity(viper.GetString(setting.ENVPoolNodeDivertedCPU)); err != nil {
		return fmt.Errorf("variable %s: %v", setting.ENVPoolNodeDivertedCPU, err)
	}
	if _, err := util.ParseRAMQuantity(viper.GetString(setting.ENVPoolNodeDivertedRAM)); err != nil {
		return fmt.Errorf("variable %s: %v", setting.ENVPoolNodeDivertedRAM, err)
	}

	if Mode() == setting.ProdMode {
		for _, key := range buildMetadataVars {
			if viper.GetString(key) == "" {
				return fmt.Errorf("variable %s must be set in production mode", key)
			}
		}
	}

	if _, err := os.Stat(CloudPrivateKeyFile()); err != nil {
		return fmt.Errorf("variable %s: %v", setting.ENVCloudPrivateKeyFile, err)
	}

	return nil
}
