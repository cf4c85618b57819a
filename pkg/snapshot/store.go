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

// Package snapshot holds the process-wide store of the latest snapshot per
// probe key.
package snapshot

import (
	"sort"
	"sync"

	"github.com/hostpulse/hostpulse/pkg/models"
)

// Store keeps the most recent snapshot for each probe. Snapshots are
// immutable; publish replaces the whole value in one pointer store, so
// readers never observe a half-updated snapshot. Each probe's entry
// updates independently (single writer per key, any number of readers).
type Store struct {
	snaps sync.Map // map[string]*models.Snapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the probe's snapshot. The caller must not mutate snap
// after publishing.
func (s *Store) Publish(probeKey string, snap *models.Snapshot) {
	s.snaps.Store(probeKey, snap)
}

// Read returns the probe's latest snapshot. A missing entry means the
// probe has not produced a snapshot this process run, which is distinct
// from a snapshot with zero devices.
func (s *Store) Read(probeKey string) (*models.Snapshot, bool) {
	v, ok := s.snaps.Load(probeKey)
	if !ok {
		return nil, false
	}

	return v.(*models.Snapshot), true
}

// Keys returns the probe keys with published snapshots, sorted for
// deterministic iteration.
func (s *Store) Keys() []string {
	var keys []string

	s.snaps.Range(func(key, _ interface{}) bool {
		keys = append(keys, key.(string))
		return true
	})

	sort.Strings(keys)

	return keys
}
