/*
 * Copyright 2025 Hostpulse Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gpu

import (
	"errors"
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// deviceAPI is the driver surface the probe consumes. The probe never
// imports the vendor SDK directly; absence or failure of the driver shows
// up as ordinary errors here.
type deviceAPI interface {
	Init() error
	DeviceCount() (int, error)
	DeviceName(index int) (string, error)
	UtilizationRates(index int) (gpuPct, memPct uint32, err error)
	MemoryInfo(index int) (used, total uint64, err error)
	Shutdown() error
}

var errDeviceIndex = errors.New("device index out of range")

// nvmlAPI implements deviceAPI on the NVML library. Device handles are
// resolved once at init so device IDs stay stable across the process run.
type nvmlAPI struct {
	devices []nvml.Device
}

func newNVMLAPI() *nvmlAPI {
	return &nvmlAPI{}
}

func (n *nvmlAPI) Init() error {
	if ret := nvml.Init(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("nvml init: %s", nvml.ErrorString(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if !errors.Is(ret, nvml.SUCCESS) {
		_ = nvml.Shutdown()
		return fmt.Errorf("nvml device count: %s", nvml.ErrorString(ret))
	}

	n.devices = make([]nvml.Device, 0, count)

	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if !errors.Is(ret, nvml.SUCCESS) {
			_ = nvml.Shutdown()
			return fmt.Errorf("nvml device handle %d: %s", i, nvml.ErrorString(ret))
		}

		n.devices = append(n.devices, device)
	}

	return nil
}

func (n *nvmlAPI) DeviceCount() (int, error) {
	return len(n.devices), nil
}

func (n *nvmlAPI) device(index int) (nvml.Device, error) {
	if index < 0 || index >= len(n.devices) {
		return nil, fmt.Errorf("%w: %d", errDeviceIndex, index)
	}

	return n.devices[index], nil
}

func (n *nvmlAPI) DeviceName(index int) (string, error) {
	device, err := n.device(index)
	if err != nil {
		return "", err
	}

	name, ret := device.GetName()
	if !errors.Is(ret, nvml.SUCCESS) {
		return "", fmt.Errorf("nvml device name: %s", nvml.ErrorString(ret))
	}

	return name, nil
}

func (n *nvmlAPI) UtilizationRates(index int) (gpuPct, memPct uint32, err error) {
	device, err := n.device(index)
	if err != nil {
		return 0, 0, err
	}

	util, ret := device.GetUtilizationRates()
	if !errors.Is(ret, nvml.SUCCESS) {
		return 0, 0, fmt.Errorf("nvml utilization rates: %s", nvml.ErrorString(ret))
	}

	return util.Gpu, util.Memory, nil
}

func (n *nvmlAPI) MemoryInfo(index int) (used, total uint64, err error) {
	device, err := n.device(index)
	if err != nil {
		return 0, 0, err
	}

	mem, ret := device.GetMemoryInfo()
	if !errors.Is(ret, nvml.SUCCESS) {
		return 0, 0, fmt.Errorf("nvml memory info: %s", nvml.ErrorString(ret))
	}

	return mem.Used, mem.Total, nil
}

func (n *nvmlAPI) Shutdown() error {
	if ret := nvml.Shutdown(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("nvml shutdown: %s", nvml.ErrorString(ret))
	}

	return nil
}
