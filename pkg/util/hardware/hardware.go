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

package hardware

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	cpuModelOnce sync.Once
	cpuModelName string
)

// GetCPUNum 返回当前进程可用的逻辑 CPU 核心数。
func GetCPUNum() int {
	return runtime.GOMAXPROCS(0)
}

// GetCPUModelName 返回主机 CPU 型号。
// 获取失败时返回 "unknown"，用于基准测试报告等非关键路径。
func GetCPUModelName() string {
	cpuModelOnce.Do(func() {
		cpuModelName = "unknown"
		infos, err := cpu.Info()
		if err != nil || len(infos) == 0 {
			return
		}
		if infos[0].ModelName != "" {
			cpuModelName = infos[0].ModelName
		}
	})
	return cpuModelName
}
