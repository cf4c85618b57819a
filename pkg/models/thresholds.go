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

package models

import (
	"errors"
	"fmt"
)

var errThresholdOrder = errors.New("thresholds must be ascending (careful <= warning <= critical)")

// Thresholds are ascending alert boundaries for one metric kind.
// A value is compared with >= against each boundary, highest first.
type Thresholds struct {
	Careful  float64 `json:"careful"`
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// DefaultThresholds returns the stock percent boundaries the configuration
// layer supplies when a metric kind has no explicit thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Careful: 50, Warning: 70, Critical: 90}
}

func (t Thresholds) Validate() error {
	if t.Careful > t.Warning || t.Warning > t.Critical {
		return fmt.Errorf("%w: careful=%v warning=%v critical=%v",
			errThresholdOrder, t.Careful, t.Warning, t.Critical)
	}

	return nil
}
