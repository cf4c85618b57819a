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

//go:generate mockgen -destination=mock_probe.go -package=probe github.com/hostpulse/hostpulse/pkg/probe Probe

// Package probe defines the capability interface to one hardware/OS metric
// source and the registry that owns probe lifecycles.
package probe

import (
	"context"
	"fmt"

	"github.com/hostpulse/hostpulse/pkg/models"
)

// Capabilities declares which metric columns a probe can fill in.
type Capabilities struct {
	Utilization bool
	Memory      bool
}

// Probe is an adapter to one metric source. The underlying driver handle
// is owned exclusively by the probe: acquired in Init, used by Collect,
// and released in Shutdown. Collect is never called concurrently with
// itself for the same probe.
type Probe interface {
	// Name returns the probe key, unique within a registry.
	Name() string

	// Capabilities reports the metric columns this probe produces.
	Capabilities() Capabilities

	// Init acquires the driver session. A failure permanently disables
	// the probe for the process lifetime.
	Init(ctx context.Context) error

	// Collect reads one set of device readings. Device IDs follow driver
	// enumeration order and stay stable across a process run.
	Collect(ctx context.Context) ([]models.DeviceReading, error)

	// Shutdown releases the driver handle. Best-effort; errors are logged
	// by the caller, never escalated.
	Shutdown(ctx context.Context) error
}

// InitError marks a probe as permanently disabled for the process lifetime.
type InitError struct {
	Key string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("probe %s: init failed: %v", e.Key, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// CollectError is a transient per-cycle failure; the next cycle retries
// naturally.
type CollectError struct {
	Key string
	Err error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("probe %s: collect failed: %v", e.Key, e.Err)
}

func (e *CollectError) Unwrap() error { return e.Err }

// ShutdownError reports a best-effort release failure.
type ShutdownError struct {
	Key string
	Err error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("probe %s: shutdown failed: %v", e.Key, e.Err)
}

func (e *ShutdownError) Unwrap() error { return e.Err }
