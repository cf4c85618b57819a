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

package snapshot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostpulse/hostpulse/pkg/models"
)

func TestStoreReadMissingKey(t *testing.T) {
	t.Parallel()

	store := NewStore()

	snap, ok := store.Read("gpu")
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestStorePublishReplacesWholeSnapshot(t *testing.T) {
	t.Parallel()

	store := NewStore()

	first := &models.Snapshot{
		ProbeKey:    "gpu",
		CollectedAt: time.Now(),
		Readings:    []models.DeviceReading{{DeviceID: 0, Name: "GTX 560 Ti"}},
	}
	store.Publish("gpu", first)

	got, ok := store.Read("gpu")
	require.True(t, ok)
	assert.Same(t, first, got)

	second := &models.Snapshot{
		ProbeKey:    "gpu",
		CollectedAt: time.Now(),
		Readings: []models.DeviceReading{
			{DeviceID: 0, Name: "GTX 560 Ti"},
			{DeviceID: 1, Name: "GTX 560 Ti"},
		},
	}
	store.Publish("gpu", second)

	got, ok = store.Read("gpu")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Len(t, got.Readings, 2)
}

func TestStoreEmptySnapshotDistinctFromMissing(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Publish("gpu", &models.Snapshot{ProbeKey: "gpu", Readings: []models.DeviceReading{}})

	snap, ok := store.Read("gpu")
	require.True(t, ok)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Readings)
}

func TestStoreKeysSorted(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Publish("memory", &models.Snapshot{ProbeKey: "memory"})
	store.Publish("cpu", &models.Snapshot{ProbeKey: "cpu"})
	store.Publish("gpu", &models.Snapshot{ProbeKey: "gpu"})

	assert.Equal(t, []string{"cpu", "gpu", "memory"}, store.Keys())
}

func TestStoreConcurrentReadersDuringPublish(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Publish("gpu", &models.Snapshot{ProbeKey: "gpu", Readings: []models.DeviceReading{{DeviceID: 0}}})

	var wg sync.WaitGroup

	stop := make(chan struct{})

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < 1000; i++ {
			store.Publish("gpu", &models.Snapshot{
				ProbeKey: "gpu",
				Readings: []models.DeviceReading{{DeviceID: 0}, {DeviceID: 1}},
			})
		}

		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-stop:
					return
				default:
					snap, ok := store.Read("gpu")
					if ok {
						// Readers always see a complete snapshot.
						assert.NotEmpty(t, snap.Readings)
					}
				}
			}
		}()
	}

	wg.Wait()
}
