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

// Package collector runs collection cycles across the enabled probes and
// publishes the results to the snapshot store.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
	"github.com/hostpulse/hostpulse/pkg/probe"
	"github.com/hostpulse/hostpulse/pkg/snapshot"
)

var errDuplicateDeviceID = fmt.Errorf("duplicate device id in probe result")

// Collector executes one collection cycle at a time. Per-probe failures are
// isolated: a failing probe keeps its prior snapshot (or gets an empty one
// on the first cycle) and every other probe still collects.
type Collector struct {
	registry probe.Registry
	store    *snapshot.Store
	mode     models.CollectionMode
	timeout  time.Duration
	clock    Clock
	log      logger.Logger
}

// New creates a collector. A nil clock defaults to the real clock.
func New(registry probe.Registry, store *snapshot.Store, cfg *Config, clock Clock, log logger.Logger) *Collector {
	if clock == nil {
		clock = realClock{}
	}

	return &Collector{
		registry: registry,
		store:    store,
		mode:     cfg.CollectionMode,
		timeout:  time.Duration(cfg.CollectTimeout),
		clock:    clock,
		log:      log,
	}
}

// Store exposes the snapshot store for consumers (alert evaluation, views).
func (c *Collector) Store() *snapshot.Store {
	return c.store
}

// CollectAll runs one cycle over every enabled probe. Probes collect
// concurrently; each probe's own driver handle sees at most one in-flight
// call because cycles never overlap. The returned map holds one entry per
// enabled probe, nil on success.
func (c *Collector) CollectAll(ctx context.Context) map[string]error {
	probes := c.registry.EnumerateEnabled()

	var mu sync.Mutex

	results := make(map[string]error, len(probes))

	g, gctx := errgroup.WithContext(ctx)

	for _, reg := range probes {
		reg := reg

		g.Go(func() error {
			err := c.collectOne(gctx, reg)

			mu.Lock()
			results[reg.Key] = err
			mu.Unlock()

			// Per-probe failures never abort the cycle.
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// collectOne applies the cross-cutting wrappers (remote stub, deadline),
// invokes the probe under a panic boundary, and publishes the outcome.
func (c *Collector) collectOne(ctx context.Context, reg probe.Registered) error {
	p := reg.Probe
	if c.mode == models.ModeRemote {
		p = probe.WithRemoteMode(p)
	}

	p = probe.WithTimeout(p, c.timeout)

	readings, err := guardedCollect(ctx, reg.Key, p)
	if err == nil {
		err = validateReadings(reg.Key, readings)
	}

	if err != nil {
		c.degrade(reg.Key, err)
		return err
	}

	c.store.Publish(reg.Key, &models.Snapshot{
		ProbeKey:    reg.Key,
		CollectedAt: c.clock.Now(),
		Readings:    readings,
	})

	c.log.Debug().Str("probe", reg.Key).Int("devices", len(readings)).Msg("Snapshot published")

	return nil
}

// degrade keeps the probe's prior snapshot (stale-but-present) or publishes
// an empty one on the first cycle. The next tick retries naturally.
func (c *Collector) degrade(key string, err error) {
	c.log.Debug().Str("probe", key).Err(err).Msg("Collect failed; snapshot degraded")

	if _, ok := c.store.Read(key); ok {
		return
	}

	c.store.Publish(key, &models.Snapshot{
		ProbeKey:    key,
		CollectedAt: c.clock.Now(),
		Readings:    []models.DeviceReading{},
	})
}

// guardedCollect isolates the probe call: a panic inside a probe degrades
// to a CollectError instead of crashing the cycle.
func guardedCollect(ctx context.Context, key string, p probe.Probe) (readings []models.DeviceReading, err error) {
	defer func() {
		if r := recover(); r != nil {
			readings = nil
			err = &probe.CollectError{Key: key, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	readings, err = p.Collect(ctx)
	if err != nil {
		return nil, &probe.CollectError{Key: key, Err: err}
	}

	return readings, nil
}

// validateReadings rejects malformed probe results before they can reach
// the store. Device IDs must be unique within one snapshot.
func validateReadings(key string, readings []models.DeviceReading) error {
	seen := make(map[int]struct{}, len(readings))

	for _, r := range readings {
		if _, dup := seen[r.DeviceID]; dup {
			return &probe.CollectError{
				Key: key,
				Err: fmt.Errorf("%w: %d", errDuplicateDeviceID, r.DeviceID),
			}
		}

		seen[r.DeviceID] = struct{}{}
	}

	return nil
}
