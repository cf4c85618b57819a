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

package collector

import (
	"context"
	"sync"
	"time"

	"github.com/hostpulse/hostpulse/pkg/logger"
)

// Runner drives one collection cycle per tick. A cycle runs synchronously
// inside the loop, so cycles never overlap; ticks that fire while a cycle
// is still running are dropped by the ticker.
type Runner struct {
	collector *Collector
	clock     Clock
	interval  time.Duration
	log       logger.Logger

	// OnCycle, when set, observes each cycle's per-probe results.
	OnCycle func(results map[string]error)

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner creates a runner. A nil clock defaults to the real clock.
func NewRunner(c *Collector, interval time.Duration, clock Clock, log logger.Logger) *Runner {
	if clock == nil {
		clock = realClock{}
	}

	return &Runner{
		collector: c,
		clock:     clock,
		interval:  interval,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Start runs the first cycle immediately, then one per tick until the
// context is canceled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info().Dur("interval", r.interval).Msg("Collection loop started")

	r.wg.Add(1)

	go r.loop(ctx)

	return nil
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := r.clock.Ticker(r.interval)
	defer ticker.Stop()

	r.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.Chan():
			r.runCycle(ctx)
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) {
	results := r.collector.CollectAll(ctx)

	if r.OnCycle != nil {
		r.OnCycle(results)
	}
}

// Stop terminates the loop and waits for an in-flight cycle to finish.
func (r *Runner) Stop(_ context.Context) error {
	r.closeOnce.Do(func() {
		close(r.done)
	})

	r.wg.Wait()

	r.log.Info().Msg("Collection loop stopped")

	return nil
}
