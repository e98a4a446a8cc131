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

package setting

const ProductName = "pool-manager"

// environment variables
const (
	ENVEnvironment     = "ENVIRONMENT"
	ENVServiceName     = "SERVICE_NAME"
	ENVServiceVersion  = "SERVICE_VERSION"
	ENVCommitID        = "COMMIT_ID"
	ENVCommitDate      = "COMMIT_DATE"
	ENVBuildDate       = "BUILD_DATE"
	ENVGitBranch       = "GIT_BRANCH"
	ENVShutdownTimeout = "SHUTDOWN_TIMEOUT"
	ENVPort            = "PORT"
	ENVLogLevel        = "LOG_LEVEL"
	ENVLogFile         = "LOG_FILE"

	ENVDBUrl      = "DB_URL"
	ENVDBUsername = "DB_USERNAME"
	ENVDBPassword = "DB_PASSWORD"
	ENVDBName     = "DB_NAME"

	ENVOperationDelayCreate = "POOL_OPERATION_DELAY_CREATE"
	ENVOperationDelayUpdate = "POOL_OPERATION_DELAY_UPDATE"
	ENVOperationDelayDelete = "POOL_OPERATION_DELAY_DELETE"

	ENVPollIntervalCloudOperations     = "POLL_INTERVAL_CLOUD_OPERATIONS"
	ENVPollIntervalScheduledOperations = "POLL_INTERVAL_SCHEDULED_OPERATIONS"
	ENVPollIntervalExpiredPools        = "POLL_INTERVAL_EXPIRED_POOLS"

	ENVPoolNodeDivertedCPU = "POOL_NODE_DIVERTED_CPU"
	ENVPoolNodeDivertedRAM = "POOL_NODE_DIVERTED_RAM"
	ENVPoolLabelKey        = "POOL_LABEL_KEY"
	ENVPoolSpecTemplate    = "POOL_SPEC_TEMPLATE"

	ENVCloudAPIUrlOperations = "CLOUD_API_URL_OPERATIONS"
	ENVCloudAPIUrlNodeGroups = "CLOUD_API_URL_NODE_GROUPS"
	ENVCloudAPIUrlAuth       = "CLOUD_API_URL_AUTH"
	ENVCloudServiceAccountID = "CLOUD_API_SERVICE_ACCOUNT_ID"
	ENVCloudPublicKeyID      = "CLOUD_API_PUBLIC_KEY_ID"
	ENVCloudPrivateKeyFile   = "CLOUD_API_PRIVATE_KEY_FILE"

	ENVKubeConfig = "KUBE_CONFIG"
	ENVIndexFile  = "INDEX_FILE"
)

// run modes, the value set of ENVIRONMENT
const (
	DevMode  = "dev"
	ProdMode = "prod"
	TestMode = "test"
)

// defaults
const (
	DefaultPort         = 8080
	DefaultPoolLabelKey = "fuzzcloud.io/pool-id"
	DefaultSpecTemplate = "pool.yaml"
	DefaultIndexFile    = "index.html"

	// UserShared is the user_id filter value selecting pools without an owner.
	UserShared = "shared"
)

// mongo collection names
const (
	PoolsCollName          = "Pools"
	UnsentMessagesCollName = "UnsentMessages"
)
