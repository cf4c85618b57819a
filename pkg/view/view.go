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

// Package view shapes snapshots and their decorations into renderer-neutral
// view models. It decides layout and severity tags only; text styling and
// color belong to the renderer.
package view

import (
	"fmt"

	"github.com/hostpulse/hostpulse/pkg/models"
)

// Layout tags the view variant the renderer should use.
type Layout string

const (
	// LayoutEmpty means there is nothing to draw.
	LayoutEmpty Layout = "empty"
	// LayoutDetail is the single-device variant with labeled rows.
	LayoutDetail Layout = "detail"
	// LayoutSummary is the multi-device variant, one condensed row per device.
	LayoutSummary Layout = "summary"
)

// NotAvailable is the marker for metrics whose value is unknown. Unknown
// is rendered explicitly, never as 0 or blank.
const NotAvailable = "N/A"

// Cell is one metric field within a row. Severity is empty when the metric
// carries no decoration.
type Cell struct {
	Metric   models.MetricKind `json:"metric"`
	Value    string            `json:"value"`
	Severity models.Severity   `json:"severity,omitempty"`
}

// Row is one device's cells in device enumeration order.
type Row struct {
	DeviceID int    `json:"device_id"`
	Name     string `json:"name"`
	Cells    []Cell `json:"cells"`
}

// ViewModel is the renderer-neutral output of one build.
type ViewModel struct {
	Layout Layout `json:"layout"`
	Title  string `json:"title"`
	Rows   []Row  `json:"rows"`
}

// Build derives a view from a snapshot and its decorations. The layout
// branch is presentation policy: it is re-derived on every build, never
// cached on the snapshot.
func Build(snap *models.Snapshot, decorations models.Decorations) ViewModel {
	if snap == nil || len(snap.Readings) == 0 {
		return ViewModel{Layout: LayoutEmpty}
	}

	rows := make([]Row, 0, len(snap.Readings))
	for _, r := range snap.Readings {
		rows = append(rows, Row{
			DeviceID: r.DeviceID,
			Name:     r.Name,
			Cells: []Cell{
				{
					Metric:   models.MetricUtilization,
					Value:    formatIntPct(r.UtilizationPct),
					Severity: decorations[models.MetricKey{DeviceID: r.DeviceID, Metric: models.MetricUtilization}],
				},
				{
					Metric:   models.MetricMemory,
					Value:    formatFloatPct(r.MemoryPct),
					Severity: decorations[models.MetricKey{DeviceID: r.DeviceID, Metric: models.MetricMemory}],
				},
			},
		})
	}

	if len(rows) == 1 {
		return ViewModel{
			Layout: LayoutDetail,
			Title:  snap.Readings[0].Name,
			Rows:   rows,
		}
	}

	return ViewModel{
		Layout: LayoutSummary,
		Title:  fmt.Sprintf("%d devices", len(rows)),
		Rows:   rows,
	}
}

func formatIntPct(v *int) string {
	if v == nil {
		return NotAvailable
	}

	return fmt.Sprintf("%d%%", *v)
}

func formatFloatPct(v *float64) string {
	if v == nil {
		return NotAvailable
	}

	return fmt.Sprintf("%d%%", int(*v))
}
