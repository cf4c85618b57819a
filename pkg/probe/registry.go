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

package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/hostpulse/hostpulse/pkg/logger"
)

var errDuplicateProbeKey = fmt.Errorf("probe key already registered")

// Factory creates a probe. The registry initializes the result and owns
// its lifecycle from then on.
type Factory func(ctx context.Context, log logger.Logger) (Probe, error)

// RegistrationResult reports the outcome of registering one probe.
// Err is informational: registration failures disable the probe, they
// never abort the host process.
type RegistrationResult struct {
	Key     string
	Enabled bool
	Err     error
}

// Registered pairs a probe with its registry key.
type Registered struct {
	Key   string
	Probe Probe
}

// Registry holds the set of initialized probes. Probes that fail init are
// kept as disabled entries so they are never collected or re-initialized.
type Registry interface {
	// Register builds and initializes a probe. On any init failure the
	// probe is marked disabled and the error is logged, not propagated.
	Register(ctx context.Context, key string, factory Factory) RegistrationResult

	// EnumerateEnabled returns the enabled probes in registration order.
	EnumerateEnabled() []Registered

	// Shutdown releases every initialized probe's driver handle exactly
	// once. Individual failures are logged and do not stop the sweep.
	Shutdown(ctx context.Context)
}

type entry struct {
	key     string
	probe   Probe
	enabled bool
}

type registry struct {
	mu      sync.RWMutex
	entries []*entry
	byKey   map[string]*entry
	log     logger.Logger
	once    sync.Once
}

// NewRegistry creates an empty probe registry.
func NewRegistry(log logger.Logger) Registry {
	return &registry{
		byKey: make(map[string]*entry),
		log:   log,
	}
}

func (r *registry) Register(ctx context.Context, key string, factory Factory) RegistrationResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[key]; ok {
		err := fmt.Errorf("%w: %s", errDuplicateProbeKey, key)
		r.log.Warn().Str("probe", key).Err(err).Msg("Probe registration rejected")

		return RegistrationResult{Key: key, Err: err}
	}

	p, err := factory(ctx, r.log)
	if err == nil {
		err = p.Init(ctx)
	}

	if err != nil {
		initErr := &InitError{Key: key, Err: err}
		r.log.Warn().Str("probe", key).Err(err).Msg("Probe disabled: init failed")
		r.addEntry(&entry{key: key, probe: p, enabled: false})

		return RegistrationResult{Key: key, Err: initErr}
	}

	r.log.Info().
		Str("probe", key).
		Bool("supports_utilization", p.Capabilities().Utilization).
		Bool("supports_memory", p.Capabilities().Memory).
		Msg("Probe registered")
	r.addEntry(&entry{key: key, probe: p, enabled: true})

	return RegistrationResult{Key: key, Enabled: true}
}

func (r *registry) addEntry(e *entry) {
	r.entries = append(r.entries, e)
	r.byKey[e.key] = e
}

func (r *registry) EnumerateEnabled() []Registered {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled := make([]Registered, 0, len(r.entries))

	for _, e := range r.entries {
		if e.enabled {
			enabled = append(enabled, Registered{Key: e.key, Probe: e.probe})
		}
	}

	return enabled
}

// Shutdown sweeps every enabled probe even when an earlier release fails.
func (r *registry) Shutdown(ctx context.Context) {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		for _, e := range r.entries {
			if !e.enabled {
				continue
			}

			if err := e.probe.Shutdown(ctx); err != nil {
				shutdownErr := &ShutdownError{Key: e.key, Err: err}
				r.log.Warn().Str("probe", e.key).Err(shutdownErr).Msg("Probe shutdown failed")
			}

			e.enabled = false
		}
	})
}
