/* Copyright 2023 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sanitize

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"
)

// SnapshotStore keeps sanitized values around, bucketed by policy
// name and keyed by caller-chosen ids.
//
// Not glamorous or efficient.
type SnapshotStore struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// snapshot is the stored envelope.
type snapshot struct {
	At    time.Time   `json:"at"`
	State interface{} `json:"state"`
}

var NotFound = errors.New("snapshot not found")

func NewSnapshotStore(filename string) *SnapshotStore {
	return &SnapshotStore{
		filename: filename,
	}
}

func (s *SnapshotStore) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("SnapshotStore."+format, args...)
	}
}

// Put stores a sanitized state under the policy's bucket.
func (s *SnapshotStore) Put(ctx context.Context, policy, id string, state interface{}) error {
	s.logf("Put %s %s", policy, id)
	js, err := json.Marshal(&snapshot{At: time.Now().UTC(), State: state})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(policy))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), js)
	})
}

// Get returns a stored state and when it was stored.
func (s *SnapshotStore) Get(ctx context.Context, policy, id string) (interface{}, time.Time, error) {
	s.logf("Get %s %s", policy, id)
	var snap snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(policy))
		if b == nil {
			return NotFound
		}
		js := b.Get([]byte(id))
		if js == nil {
			return NotFound
		}
		return json.Unmarshal(js, &snap)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return snap.State, snap.At, nil
}

// Sweep removes every snapshot under the policy stored before the
// given time, reporting how many went away.
func (s *SnapshotStore) Sweep(ctx context.Context, policy string, before time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(policy))
		if b == nil {
			return nil
		}
		doomed := make([][]byte, 0, 32)
		c := b.Cursor()
		for id, js := c.First(); id != nil; id, js = c.Next() {
			var snap snapshot
			if err := json.Unmarshal(js, &snap); err != nil {
				// A snapshot we can't read is a snapshot
				// we don't want.
				doomed = append(doomed, append([]byte{}, id...))
				continue
			}
			if snap.At.Before(before) {
				doomed = append(doomed, append([]byte{}, id...))
			}
		}
		for _, id := range doomed {
			if err := b.Delete(id); err != nil {
				return err
			}
		}
		removed = len(doomed)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logf("Sweep %s removed %d", policy, removed)
	return removed, nil
}
