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
	"fmt"
	"time"

	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
)

const defaultInterval = 2 * time.Second

var errInvalidCollectionMode = fmt.Errorf("invalid collection_mode (want %q or %q)", models.ModeLocal, models.ModeRemote)

// Config configures the collection cycle and its alert thresholds.
type Config struct {
	// Interval is the poll cadence. Defaults to 2s.
	Interval models.Duration `json:"interval"`

	// CollectionMode selects local driver polling or the remote stub.
	CollectionMode models.CollectionMode `json:"collection_mode"`

	// CollectTimeout, when set, wraps each probe collect with a deadline.
	// Zero imposes no timeout.
	CollectTimeout models.Duration `json:"collect_timeout"`

	// Thresholds sets alert boundaries per metric kind. When absent, the
	// stock boundaries apply to both kinds.
	Thresholds map[models.MetricKind]models.Thresholds `json:"thresholds"`

	Logging *logger.Config `json:"logging"`
}

// Validate normalizes defaults and rejects inconsistent settings.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		c.Interval = models.Duration(defaultInterval)
	}

	switch c.CollectionMode {
	case "":
		c.CollectionMode = models.ModeLocal
	case models.ModeLocal, models.ModeRemote:
	default:
		return fmt.Errorf("%w: %q", errInvalidCollectionMode, c.CollectionMode)
	}

	if c.Thresholds == nil {
		c.Thresholds = map[models.MetricKind]models.Thresholds{
			models.MetricUtilization: models.DefaultThresholds(),
			models.MetricMemory:      models.DefaultThresholds(),
		}
	}

	for kind, t := range c.Thresholds {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("thresholds for %q: %w", kind, err)
		}
	}

	return nil
}
