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

// Package models holds the shared data model for probes, snapshots and alerts.
package models

import "time"

// MetricKind identifies one metric column within a device reading.
type MetricKind string

const (
	// MetricUtilization is the device processor utilization in percent.
	MetricUtilization MetricKind = "proc"
	// MetricMemory is the device memory consumption in percent.
	MetricMemory MetricKind = "mem"
)

// DeviceReading is one device's metrics from a single collection cycle.
// Optional fields are nil when the underlying metric is unavailable; nil
// means "unknown" and is never conflated with 0%.
type DeviceReading struct {
	DeviceID       int      `json:"device_id"`
	Name           string   `json:"name"`
	UtilizationPct *int     `json:"utilization_percent"`
	MemoryPct      *float64 `json:"memory_percent"`
}

// Snapshot is the immutable result of one probe's collection cycle.
// Readings keep driver enumeration order; device IDs are unique within
// a snapshot. A published snapshot is never mutated, only replaced.
type Snapshot struct {
	ProbeKey    string          `json:"probe_key"`
	CollectedAt time.Time       `json:"collected_at"`
	Readings    []DeviceReading `json:"readings"`
}

// Severity is an alert decoration tag, ordered from OK to CRITICAL.
type Severity string

const (
	SeverityOK       Severity = "OK"
	SeverityCareful  Severity = "CAREFUL"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// MetricKey addresses one metric value inside a snapshot.
type MetricKey struct {
	DeviceID int
	Metric   MetricKind
}

// Decorations maps metric values to alert severities. Metrics whose value
// is unknown carry no entry at all.
type Decorations map[MetricKey]Severity

// CollectionMode selects how probes acquire their readings.
type CollectionMode string

const (
	// ModeLocal polls the local driver APIs.
	ModeLocal CollectionMode = "local"
	// ModeRemote is reserved for a future remote transport. Probes in
	// remote mode deterministically yield empty snapshots.
	ModeRemote CollectionMode = "remote"
)
