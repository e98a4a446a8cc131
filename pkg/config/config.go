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
	"time"

	"github.com/spf13/viper"

	"github.com/fuzzcloud/pool-manager/pkg/setting"
	"github.com/fuzzcloud/pool-manager/pkg/util"
)

func init() {
	viper.AutomaticEnv()
}

func Mode() string {
	mode := viper.GetString(setting.ENVEnvironment)
	if mode == "" {
		return setting.DevMode
	}

	return mode
}

func ServiceName() string {
	return viper.GetString(setting.ENVServiceName)
}

func ServiceVersion() string {
	return viper.GetString(setting.ENVServiceVersion)
}

func CommitID() string {
	return viper.GetString(setting.ENVCommitID)
}

func CommitDate() string {
	return viper.GetString(setting.ENVCommitDate)
}

func BuildDate() string {
	return viper.GetString(setting.ENVBuildDate)
}

func GitBranch() string {
	return viper.GetString(setting.ENVGitBranch)
}

func Port() int {
	port := viper.GetInt(setting.ENVPort)
	if port == 0 {
		return setting.DefaultPort
	}

	return port
}

func ShutdownTimeout() time.Duration {
	d, err := util.ParseDuration(viper.GetString(setting.ENVShutdownTimeout))
	if err != nil {
		return 5 * time.Second
	}

	return d
}

func LogLevel() string {
	level := viper.GetString(setting.ENVLogLevel)
	if level == "" {
		return "debug"
	}

	return level
}

func LogFile() string {
	return viper.GetString(setting.ENVLogFile)
}

func SendLogToFile() bool {
	return LogFile() != ""
}

func MongoURI() string {
	return viper.GetString(setting.ENVDBUrl)
}

func MongoUsername() string {
	return viper.GetString(setting.ENVDBUsername)
}

func MongoPassword() string {
	return viper.GetString(setting.ENVDBPassword)
}

func MongoDatabase() string {
	return viper.GetString(setting.ENVDBName)
}

func OperationDelayCreate() time.Duration {
	return mustDuration(setting.ENVOperationDelayCreate)
}

func OperationDelayUpdate() time.Duration {
	return mustDuration(setting.ENVOperationDelayUpdate)
}

func OperationDelayDelete() time.Duration {
	return mustDuration(setting.ENVOperationDelayDelete)
}

func PollIntervalCloudOperations() time.Duration {
	return mustDuration(setting.ENVPollIntervalCloudOperations)
}

func PollIntervalScheduledOperations() time.Duration {
	return mustDuration(setting.ENVPollIntervalScheduledOperations)
}

func PollIntervalExpiredPools() time.Duration {
	return mustDuration(setting.ENVPollIntervalExpiredPools)
}

// PoolNodeDivertedCPU is the amount of cpu (in millicores) reserved on every
// pool node for system components, i.e. not schedulable for fuzzer workloads.
func PoolNodeDivertedCPU() int64 {
	v, _ := util.ParseCPUQuantity(viper.GetString(setting.ENVPoolNodeDivertedCPU))
	return v
}

// PoolNodeDivertedRAM is the reserved memory per node, in MiB.
func PoolNodeDivertedRAM() int64 {
	v, _ := util.ParseRAMQuantity(viper.GetString(setting.ENVPoolNodeDivertedRAM))
	return v
}

func PoolLabelKey() string {
	key := viper.GetString(setting.ENVPoolLabelKey)
	if key == "" {
		return setting.DefaultPoolLabelKey
	}

	return key
}

func PoolSpecTemplate() string {
	path := viper.GetString(setting.ENVPoolSpecTemplate)
	if path == "" {
		return setting.DefaultSpecTemplate
	}

	return path
}

func CloudAPIUrlOperations() string {
	return viper.GetString(setting.ENVCloudAPIUrlOperations)
}

func CloudAPIUrlNodeGroups() string {
	return viper.GetString(setting.ENVCloudAPIUrlNodeGroups)
}

func CloudAPIUrlAuth() string {
	return viper.GetString(setting.ENVCloudAPIUrlAuth)
}

func CloudServiceAccountID() string {
	return viper.GetString(setting.ENVCloudServiceAccountID)
}

func CloudPublicKeyID() string {
	return viper.GetString(setting.ENVCloudPublicKeyID)
}

func CloudPrivateKeyFile() string {
	return viper.GetString(setting.ENVCloudPrivateKeyFile)
}

// KubeConfig returns the path to the mounted kubeconfig file.
// An empty value means in-cluster configuration.
func KubeConfig() string {
	return viper.GetString(setting.ENVKubeConfig)
}

func IndexFile() string {
	path := viper.GetString(setting.ENVIndexFile)
	if path == "" {
		return setting.DefaultIndexFile
	}

	return path
}

func mustDuration(key string) time.Duration {
	d, err := util.ParseDuration(viper.GetString(key))
	if err != nil {
		panic(fmt.Sprintf("variable %s: %v", key, err))
	}

	return d
}
