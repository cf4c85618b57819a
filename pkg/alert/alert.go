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

// Package alert maps metric values to severity decorations. Evaluation is
// a pure function over a snapshot; no state is kept between cycles.
package alert

import "github.com/hostpulse/hostpulse/pkg/models"

// Evaluator holds per-metric-kind thresholds. The evaluator carries no
// built-in defaults: supplying them is the configuration layer's concern,
// and kinds left unconfigured always evaluate to OK.
type Evaluator struct {
	thresholds map[models.MetricKind]models.Thresholds
}

// NewEvaluator creates an evaluator with the given thresholds. A nil map
// means every metric kind evaluates to OK.
func NewEvaluator(thresholds map[models.MetricKind]models.Thresholds) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// ThresholdsFor returns the configured boundaries for a metric kind.
func (e *Evaluator) ThresholdsFor(kind models.MetricKind) (models.Thresholds, bool) {
	t, ok := e.thresholds[kind]
	return t, ok
}

// Evaluate maps one metric value to a severity. A nil value is "unknown"
// and always evaluates to OK, never an error.
func (e *Evaluator) Evaluate(value *float64, kind models.MetricKind) models.Severity {
	if value == nil {
		return models.SeverityOK
	}

	t, ok := e.ThresholdsFor(kind)
	if !ok {
		return models.SeverityOK
	}

	return Evaluate(*value, t)
}

// Evaluate compares a value against ascending boundaries with >=, highest
// boundary first.
func Evaluate(value float64, t models.Thresholds) models.Severity {
	switch {
	case value >= t.Critical:
		return models.SeverityCritical
	case value >= t.Warning:
		return models.SeverityWarning
	case value >= t.Careful:
		return models.SeverityCareful
	default:
		return models.SeverityOK
	}
}

// Decorate evaluates every present metric in a snapshot. Unknown (nil)
// metrics get no entry: absence of a decoration is the neutral state.
func (e *Evaluator) Decorate(snap *models.Snapshot) models.Decorations {
	if snap == nil {
		return models.Decorations{}
	}

	decorations := make(models.Decorations, 2*len(snap.Readings))

	for _, r := range snap.Readings {
		if r.UtilizationPct != nil {
			v := float64(*r.UtilizationPct)
			key := models.MetricKey{DeviceID: r.DeviceID, Metric: models.MetricUtilization}
			decorations[key] = e.Evaluate(&v, models.MetricUtilization)
		}

		if r.MemoryPct != nil {
			key := models.MetricKey{DeviceID: r.DeviceID, Metric: models.MetricMemory}
			decorations[key] = e.Evaluate(r.MemoryPct, models.MetricMemory)
		}
	}

	return decorations
}
