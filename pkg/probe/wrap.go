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
	"time"

	"github.com/hostpulse/hostpulse/pkg/models"
)

// WithTimeout wraps a probe so each Collect call runs under a deadline.
// The probe itself is unchanged; d <= 0 returns the probe as-is.
func WithTimeout(p Probe, d time.Duration) Probe {
	if d <= 0 {
		return p
	}

	return &timeoutProbe{Probe: p, timeout: d}
}

type timeoutProbe struct {
	Probe
	timeout time.Duration
}

func (t *timeoutProbe) Collect(ctx context.Context) ([]models.DeviceReading, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.Probe.Collect(ctx)
}

// WithRemoteMode wraps a probe for the "remote" collection mode, which has
// no transport yet: Collect deterministically yields zero readings instead
// of touching the local driver. Init and Shutdown still manage the handle
// so switching modes needs no re-registration.
func WithRemoteMode(p Probe) Probe {
	return &remoteProbe{Probe: p}
}

type remoteProbe struct {
	Probe
}

func (*remoteProbe) Collect(_ context.Context) ([]models.DeviceReading, error) {
	return []models.DeviceReading{}, nil
}
