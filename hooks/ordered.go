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

package hooks

import (
	"bytes"
	"encoding/json"
)

// OrderedMap is a string-keyed map that remembers insertion order.
//
// Plain Go maps can't promise any iteration order, so traversals that
// need entries to come back in the order they went in should use an
// OrderedMap.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		values: make(map[string]interface{}, 8),
	}
}

// Set inserts or updates a key.  An update keeps the key's original
// position.
func (m *OrderedMap) Set(key string, value interface{}) *OrderedMap {
	if _, have := m.values[key]; !have {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, have := m.values[key]
	return v, have
}

func (m *OrderedMap) Delete(key string) {
	if _, have := m.values[key]; !have {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *OrderedMap) pairs() []interface{} {
	elems := make([]interface{}, 0, len(m.keys))
	for _, k := range m.keys {
		elems = append(elems, Pair{Key: k, Value: m.values[k]})
	}
	return elems
}

// MarshalJSON writes the entries in insertion order.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range m.keys {
		if 0 < i {
			buf.WriteByte(',')
		}
		ks, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(ks)
		buf.WriteByte(':')
		vs, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
