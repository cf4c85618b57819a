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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
	"github.com/hostpulse/hostpulse/pkg/probe"
	"github.com/hostpulse/hostpulse/pkg/snapshot"
)

func TestRunnerRunsCyclePerTick(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := probe.NewRegistry(logger.NewTestLogger())

	gpu := probe.NewMockProbe(ctrl)
	gpu.EXPECT().Collect(gomock.Any()).Return([]models.DeviceReading{{DeviceID: 0, Name: "gpu0"}}, nil).Times(3)
	registerMock(t, reg, "gpu", gpu)

	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	c := New(reg, snapshot.NewStore(), cfg, nil, logger.NewTestLogger())

	tickCh := make(chan time.Time)

	ticker := NewMockTicker(ctrl)
	ticker.EXPECT().Chan().Return((<-chan time.Time)(tickCh)).AnyTimes()
	ticker.EXPECT().Stop()

	clock := NewMockClock(ctrl)
	clock.EXPECT().Ticker(time.Duration(cfg.Interval)).Return(ticker)

	runner := NewRunner(c, time.Duration(cfg.Interval), clock, logger.NewTestLogger())

	cycles := make(chan map[string]error, 8)
	runner.OnCycle = func(results map[string]error) {
		cycles <- results
	}

	require.NoError(t, runner.Start(context.Background()))

	// First cycle fires immediately, then one per tick.
	waitForCycle(t, cycles)

	tickCh <- time.Now()
	waitForCycle(t, cycles)

	tickCh <- time.Now()
	results := waitForCycle(t, cycles)
	require.NoError(t, results["gpu"])

	require.NoError(t, runner.Stop(context.Background()))
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	reg := probe.NewRegistry(logger.NewTestLogger())

	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	c := New(reg, snapshot.NewStore(), cfg, nil, logger.NewTestLogger())
	runner := NewRunner(c, time.Duration(cfg.Interval), nil, logger.NewTestLogger())

	require.NoError(t, runner.Start(context.Background()))
	require.NoError(t, runner.Stop(context.Background()))
	require.NoError(t, runner.Stop(context.Background()))
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	reg := probe.NewRegistry(logger.NewTestLogger())

	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	c := New(reg, snapshot.NewStore(), cfg, nil, logger.NewTestLogger())
	runner := NewRunner(c, time.Duration(cfg.Interval), nil, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, runner.Start(ctx))

	cancel()

	done := make(chan struct{})

	go func() {
		_ = runner.Stop(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancel")
	}
}

func waitForCycle(t *testing.T, cycles <-chan map[string]error) map[string]error {
	t.Helper()

	select {
	case results := <-cycles:
		return results
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a collection cycle")
		return nil
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, models.Duration(defaultInterval), cfg.Interval)
	assert.Equal(t, models.ModeLocal, cfg.CollectionMode)
	assert.Equal(t, models.DefaultThresholds(), cfg.Thresholds[models.MetricUtilization])
	assert.Equal(t, models.DefaultThresholds(), cfg.Thresholds[models.MetricMemory])
}

func TestConfigValidateRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	cfg := &Config{CollectionMode: "snmp"}
	require.ErrorIs(t, cfg.Validate(), errInvalidCollectionMode)
}

func TestConfigValidateRejectsDescendingThresholds(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Thresholds: map[models.MetricKind]models.Thresholds{
			models.MetricUtilization: {Careful: 90, Warning: 70, Critical: 50},
		},
	}
	require.Error(t, cfg.Validate())
}
