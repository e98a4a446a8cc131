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

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Registry *prometheus.Registry

	PoolsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pools_total",
			Help: "Number of managed resource pools",
		},
	)

	PoolsByHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pools_by_health",
			Help: "Number of pools per health state",
		},
		[]string{"health"},
	)

	PoolNodesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_nodes_total",
			Help: "Number of live nodes registered across all pools",
		},
	)

	PoolCPUTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_cpu_millicores_total",
			Help: "Total cpu of live pool nodes, in millicores",
		},
	)

	PoolRAMTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_ram_mib_total",
			Help: "Total memory of live pool nodes, in MiB",
		},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_total",
			Help: "Number of requests",
		},
		[]string{"method", "handler", "status"},
	)

	ResponseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_response_time",
			Help:    "The API response time in seconds",
			Buckets: prometheus.LinearBuckets(0.2, 0.2, 10),
		},
		[]string{"method", "handler", "status"},
	)

	PollerRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_runs_total",
			Help: "Number of poller executions",
		},
		[]string{"poller", "result"},
	)
)

func init() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		PoolsTotal,
		PoolsByHealth,
		PoolNodesTotal,
		PoolCPUTotal,
		PoolRAMTotal,
		RequestTotal,
		ResponseTime,
		PollerRunsTotal,
	)
}

func RegisterRequest(startTime int64, method, handler string, status int) {
	RequestTotal.WithLabelValues(method, handler, fmt.Sprintf("%d", status)).Inc()
	ResponseTime.WithLabelValues(method, handler, fmt.Sprintf("%d", status)).Observe(float64(time.Now().UnixMilli()-startTime) / 1000)
}

func RegisterPollerRun(poller string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PollerRunsTotal.WithLabelValues(poller, result).Inc()
}
