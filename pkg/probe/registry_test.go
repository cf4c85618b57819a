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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hostpulse/hostpulse/pkg/logger"
)

var (
	errTestDriverMissing = errors.New("driver missing")
	errTestRelease       = errors.New("release failed")
)

func newEnabledMock(t *testing.T, ctrl *gomock.Controller) *MockProbe {
	t.Helper()

	p := NewMockProbe(ctrl)
	p.EXPECT().Init(gomock.Any()).Return(nil)
	p.EXPECT().Capabilities().Return(Capabilities{Utilization: true, Memory: true}).AnyTimes()

	return p
}

func TestRegistryRegisterEnablesProbe(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := NewRegistry(logger.NewTestLogger())

	p := newEnabledMock(t, ctrl)

	result := reg.Register(context.Background(), "gpu", func(_ context.Context, _ logger.Logger) (Probe, error) {
		return p, nil
	})

	require.NoError(t, result.Err)
	assert.True(t, result.Enabled)
	assert.Equal(t, "gpu", result.Key)

	enabled := reg.EnumerateEnabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "gpu", enabled[0].Key)
}

func TestRegistryInitFailureDisablesProbe(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := NewRegistry(logger.NewTestLogger())

	p := NewMockProbe(ctrl)
	p.EXPECT().Init(gomock.Any()).Return(errTestDriverMissing)
	// No Collect or Shutdown expectations: a disabled probe is never touched again.

	result := reg.Register(context.Background(), "gpu", func(_ context.Context, _ logger.Logger) (Probe, error) {
		return p, nil
	})

	require.Error(t, result.Err)
	assert.False(t, result.Enabled)

	var initErr *InitError

	require.ErrorAs(t, result.Err, &initErr)
	assert.Equal(t, "gpu", initErr.Key)
	assert.ErrorIs(t, result.Err, errTestDriverMissing)

	assert.Empty(t, reg.EnumerateEnabled())

	// Shutdown must not touch the disabled probe either.
	reg.Shutdown(context.Background())
}

func TestRegistryFactoryFailureDisablesProbe(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(logger.NewTestLogger())

	result := reg.Register(context.Background(), "gpu", func(_ context.Context, _ logger.Logger) (Probe, error) {
		return nil, errTestDriverMissing
	})

	require.Error(t, result.Err)
	assert.False(t, result.Enabled)
	assert.Empty(t, reg.EnumerateEnabled())
}

func TestRegistryRejectsDuplicateKey(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := NewRegistry(logger.NewTestLogger())

	first := newEnabledMock(t, ctrl)

	result := reg.Register(context.Background(), "gpu", func(_ context.Context, _ logger.Logger) (Probe, error) {
		return first, nil
	})
	require.NoError(t, result.Err)

	dup := reg.Register(context.Background(), "gpu", func(_ context.Context, _ logger.Logger) (Probe, error) {
		t.Fatal("factory must not run for a duplicate key")
		return nil, nil
	})

	require.Error(t, dup.Err)
	assert.False(t, dup.Enabled)
	assert.Len(t, reg.EnumerateEnabled(), 1)
}

func TestRegistryEnumerateKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := NewRegistry(logger.NewTestLogger())

	for _, key := range []string{"gpu", "cpu", "memory"} {
		p := newEnabledMock(t, ctrl)
		result := reg.Register(context.Background(), key, func(_ context.Context, _ logger.Logger) (Probe, error) {
			return p, nil
		})
		require.NoError(t, result.Err)
	}

	enabled := reg.EnumerateEnabled()
	require.Len(t, enabled, 3)
	assert.Equal(t, "gpu", enabled[0].Key)
	assert.Equal(t, "cpu", enabled[1].Key)
	assert.Equal(t, "memory", enabled[2].Key)
}

func TestRegistryShutdownSweepsAllProbes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := NewRegistry(logger.NewTestLogger())

	// Probe A fails its release; probe B must still be released.
	a := newEnabledMock(t, ctrl)
	a.EXPECT().Shutdown(gomock.Any()).Return(errTestRelease).Times(1)

	b := newEnabledMock(t, ctrl)
	b.EXPECT().Shutdown(gomock.Any()).Return(nil).Times(1)

	for key, p := range map[string]*MockProbe{"a": a, "b": b} {
		mock := p
		result := reg.Register(context.Background(), key, func(_ context.Context, _ logger.Logger) (Probe, error) {
			return mock, nil
		})
		require.NoError(t, result.Err)
	}

	reg.Shutdown(context.Background())

	// Exactly once per probe, even when called again.
	reg.Shutdown(context.Background())
}
