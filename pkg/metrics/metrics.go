// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// cryptoNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	cryptoNamespace = "srtp_garden"

	// 以下为当前使用的通用标签名。
	algorithmLabelName = "algorithm"
	resultLabelName    = "result"

	// SelfTestTotal 的 result 标签取值。
	ResultPass = "pass"
	ResultFail = "fail"
)

var (
	// SelfTestTotal 统计各算法自检的通过/失败次数。
	SelfTestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cryptoNamespace,
			Name:      "cipher_self_test_total",
			Help:      "number of cipher self-test runs by algorithm and result",
		}, []string{algorithmLabelName, resultLabelName})

	// CipherThroughputBits 记录最近一次基准测试得到的加密吞吐，单位 bit/s。
	CipherThroughputBits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: cryptoNamespace,
			Name:      "cipher_throughput_bits_per_second",
			Help:      "most recent benchmarked encryption throughput in bits per second",
		}, []string{algorithmLabelName})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 通常应在 init 函数中调用。
func Register(r prometheus.Registerer) {
	r.MustRegister(SelfTestTotal)
	r.MustRegister(CipherThroughputBits)
	metricRegisterer = r
}
