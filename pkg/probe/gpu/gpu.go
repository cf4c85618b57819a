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

// Package gpu probes NVIDIA GPU utilization and memory via the NVML
// driver API.
package gpu

import (
	"context"

	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
	"github.com/hostpulse/hostpulse/pkg/probe"
)

const (
	// ProbeName is the registry key for this probe.
	ProbeName = "gpu"

	// fallbackDeviceName is reported when the driver cannot name a device.
	fallbackDeviceName = "NVIDIA GPU"
)

// Probe collects one DeviceReading per physical GPU. The driver session
// and device handles are acquired once at Init and held until Shutdown.
type Probe struct {
	api   deviceAPI
	log   logger.Logger
	count int
}

// New creates an NVML-backed GPU probe.
func New(log logger.Logger) *Probe {
	return &Probe{api: newNVMLAPI(), log: log}
}

// NewFactory returns a registry factory for the GPU probe.
func NewFactory() probe.Factory {
	return func(_ context.Context, log logger.Logger) (probe.Probe, error) {
		return New(log), nil
	}
}

func (*Probe) Name() string { return ProbeName }

func (*Probe) Capabilities() probe.Capabilities {
	return probe.Capabilities{Utilization: true, Memory: true}
}

// Init starts the driver session and enumerates devices. Any failure
// (driver absent, incompatible, no permission) disables the probe for the
// process lifetime; the registry records it, nothing crashes.
func (p *Probe) Init(_ context.Context) error {
	if err := p.api.Init(); err != nil {
		return err
	}

	count, err := p.api.DeviceCount()
	if err != nil {
		return err
	}

	p.count = count
	p.log.Debug().Int("devices", count).Msg("GPU driver initialized")

	return nil
}

// Collect reads every enumerated device. Per-device metric failures leave
// the field nil ("unknown"), never zero; device IDs follow the driver
// enumeration order fixed at Init.
func (p *Probe) Collect(ctx context.Context) ([]models.DeviceReading, error) {
	readings := make([]models.DeviceReading, 0, p.count)

	for i := 0; i < p.count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		readings = append(readings, p.collectDevice(i))
	}

	return readings, nil
}

func (p *Probe) collectDevice(index int) models.DeviceReading {
	reading := models.DeviceReading{DeviceID: index, Name: fallbackDeviceName}

	if name, err := p.api.DeviceName(index); err == nil {
		reading.Name = name
	}

	if gpuPct, memPct, err := p.api.UtilizationRates(index); err == nil {
		util := int(gpuPct)
		mem := float64(memPct)
		reading.UtilizationPct = &util
		reading.MemoryPct = &mem

		return reading
	}

	// Utilization rates unavailable: memory consumption can still come
	// from the memory info counters.
	if used, total, err := p.api.MemoryInfo(index); err == nil && total > 0 {
		mem := float64(used) * 100 / float64(total)
		reading.MemoryPct = &mem
	}

	return reading
}

// Shutdown releases the driver session. Best-effort: the registry logs a
// failure and moves on.
func (p *Probe) Shutdown(_ context.Context) error {
	return p.api.Shutdown()
}
