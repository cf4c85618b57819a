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

package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
	"github.com/hostpulse/hostpulse/pkg/probe"
)

// MemoryProbeName is the registry key for the memory probe.
const MemoryProbeName = "memory"

// MemoryProbe reports virtual memory consumption as a single device.
type MemoryProbe struct {
	log    logger.Logger
	vmStat func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewMemoryProbe creates a virtual-memory probe.
func NewMemoryProbe(log logger.Logger) *MemoryProbe {
	return &MemoryProbe{
		log:    log,
		vmStat: mem.VirtualMemoryWithContext,
	}
}

// NewMemoryFactory returns a registry factory for the memory probe.
func NewMemoryFactory() probe.Factory {
	return func(_ context.Context, log logger.Logger) (probe.Probe, error) {
		return NewMemoryProbe(log), nil
	}
}

func (*MemoryProbe) Name() string { return MemoryProbeName }

func (*MemoryProbe) Capabilities() probe.Capabilities {
	return probe.Capabilities{Memory: true}
}

// Init samples once to fail fast when the OS counters are unreadable.
func (p *MemoryProbe) Init(ctx context.Context) error {
	_, err := p.vmStat(ctx)
	return err
}

func (p *MemoryProbe) Collect(ctx context.Context) ([]models.DeviceReading, error) {
	stats, err := p.vmStat(ctx)
	if err != nil {
		return nil, err
	}

	used := stats.UsedPercent

	return []models.DeviceReading{
		{DeviceID: 0, Name: "virtual memory", MemoryPct: &used},
	}, nil
}

func (*MemoryProbe) Shutdown(_ context.Context) error {
	return nil // no driver handle to release
}
