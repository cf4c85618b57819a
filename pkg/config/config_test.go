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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostpulse/hostpulse/pkg/collector"
	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/models"
)

var errTestAlwaysInvalid = errors.New("always invalid")

type invalidConfig struct{}

func (*invalidConfig) Validate() error { return errTestAlwaysInvalid }

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hostpulse.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateCollectorConfig(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `{
		"interval": "5s",
		"collection_mode": "local",
		"collect_timeout": "2s",
		"thresholds": {
			"proc": {"careful": 50, "warning": 70, "critical": 90},
			"mem": {"careful": 60, "warning": 80, "critical": 95}
		},
		"logging": {"level": "debug", "output": "stdout"}
	}`)

	var cfg collector.Config

	loader := NewConfig(logger.NewTestLogger())
	require.NoError(t, loader.LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, models.Duration(5*time.Second), cfg.Interval)
	assert.Equal(t, models.ModeLocal, cfg.CollectionMode)
	assert.Equal(t, models.Duration(2*time.Second), cfg.CollectTimeout)
	assert.Equal(t, 95.0, cfg.Thresholds[models.MetricMemory].Critical)
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAndValidateAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `{}`)

	var cfg collector.Config

	loader := NewConfig(logger.NewTestLogger())
	require.NoError(t, loader.LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, models.Duration(2*time.Second), cfg.Interval)
	assert.Equal(t, models.ModeLocal, cfg.CollectionMode)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	t.Parallel()

	var cfg collector.Config

	loader := NewConfig(logger.NewTestLogger())
	err := loader.LoadAndValidate(context.Background(), "/nonexistent/hostpulse.json", &cfg)
	require.ErrorIs(t, err, errLoadConfigFailed)
}

func TestLoadAndValidateMalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `{"interval": `)

	var cfg collector.Config

	loader := NewConfig(logger.NewTestLogger())
	require.ErrorIs(t, loader.LoadAndValidate(context.Background(), path, &cfg), errLoadConfigFailed)
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `{}`)

	loader := NewConfig(logger.NewTestLogger())
	err := loader.LoadAndValidate(context.Background(), path, &invalidConfig{})
	require.ErrorIs(t, err, errTestAlwaysInvalid)
}

func TestLoadAndValidateRejectsNonPointer(t *testing.T) {
	t.Parallel()

	loader := NewConfig(logger.NewTestLogger())

	var cfg collector.Config

	assert.ErrorIs(t, loader.LoadAndValidate(context.Background(), "ignored.json", cfg), errInvalidConfigPtr)
}
