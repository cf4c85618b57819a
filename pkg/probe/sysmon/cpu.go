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

// Package sysmon provides OS-level probes (CPU, memory) built on gopsutil.
package sysmon

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
	"github.com/hostpulse/hostpulse/pkg/probe"
)

// CPUProbeName is the registry key for the CPU probe.
const CPUProbeName = "cpu"

// CPUProbe reports per-core utilization, one device per logical core.
// Core count is fixed at init so device IDs stay stable across the run.
type CPUProbe struct {
	log            logger.Logger
	usageCollector func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	cores          int
}

// NewCPUProbe creates a per-core CPU utilization probe.
func NewCPUProbe(log logger.Logger) *CPUProbe {
	return &CPUProbe{
		log:            log,
		usageCollector: cpu.PercentWithContext,
	}
}

// NewCPUFactory returns a registry factory for the CPU probe.
func NewCPUFactory() probe.Factory {
	return func(_ context.Context, log logger.Logger) (probe.Probe, error) {
		return NewCPUProbe(log), nil
	}
}

func (*CPUProbe) Name() string { return CPUProbeName }

func (*CPUProbe) Capabilities() probe.Capabilities {
	return probe.Capabilities{Utilization: true}
}

// Init samples once to fail fast when the OS counters are unreadable and
// to pin the core count.
func (p *CPUProbe) Init(ctx context.Context) error {
	percents, err := p.usageCollector(ctx, 0, true)
	if err != nil {
		return err
	}

	p.cores = len(percents)
	p.log.Debug().Int("cores", p.cores).Msg("CPU probe initialized")

	return nil
}

func (p *CPUProbe) Collect(ctx context.Context) ([]models.DeviceReading, error) {
	percents, err := p.usageCollector(ctx, 0, true)
	if err != nil {
		return nil, err
	}

	readings := make([]models.DeviceReading, 0, p.cores)

	for i := 0; i < p.cores; i++ {
		reading := models.DeviceReading{DeviceID: i, Name: fmt.Sprintf("cpu%d", i)}

		// A shrunken sample leaves the missing cores unknown, not zero.
		if i < len(percents) {
			util := int(math.Round(percents[i]))
			reading.UtilizationPct = &util
		}

		readings = append(readings, reading)
	}

	return readings, nil
}

func (*CPUProbe) Shutdown(_ context.Context) error {
	return nil // no driver handle to release
}
