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

// Package hooks provides the structural adapters that teach traversals
// how to take a container apart into an ordered sequence of elements
// and how to put one back together again.
//
// An Adapter is registered per concrete container type.  Lookup order
// when a traversal meets a value: exact type in the registry, then the
// Iterable capability, then "not a container".
package hooks

import (
	"fmt"
	"reflect"
	"sort"
)

// Pair is a key-value entry of a map-like container.
//
// Map-like adapters iterate Pairs rather than bare values so that a
// rebuild knows where each value goes.
type Pair struct {
	Key   interface{}
	Value interface{}
}

type dropMarker struct{}

func (dropMarker) String() string {
	return "<drop>"
}

// Drop is the reserved marker.  An element (or a Pair value) equal to
// Drop is omitted when a container is rebuilt, which gives traversals
// filter-like behavior.
var Drop interface{} = dropMarker{}

// IsDrop reports whether x (or, for a Pair, its value) is the Drop
// marker.
func IsDrop(x interface{}) bool {
	if x == Drop {
		return true
	}
	if p, is := x.(Pair); is {
		return p.Value == Drop
	}
	return false
}

// Adapter converts a container to and from an ordered sequence of
// elements.
type Adapter struct {
	// ToIter returns the container's elements in the container's
	// canonical order.  Map-like containers yield Pairs.
	ToIter func(container interface{}) []interface{}

	// FromIter builds a new container of the template's type from
	// the given elements.  Elements equal to Drop are omitted.
	// The template is never modified.
	FromIter func(template interface{}, elems []interface{}) (interface{}, error)
}

// Iterable is the declared-capability fallback for types that carry
// their own structural adapter.
type Iterable interface {
	ToIter() []interface{}
	FromIter(elems []interface{}) (interface{}, error)
}

// Registry maps concrete container types to Adapters.
//
// A Registry is meant to be populated at process start and treated as
// read-only afterwards.  Traversals never write to it.
type Registry struct {
	adapters map[reflect.Type]*Adapter
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[reflect.Type]*Adapter, 8),
	}
}

// Register installs an adapter for the prototype's concrete type.
func (r *Registry) Register(prototype interface{}, a *Adapter) {
	r.adapters[reflect.TypeOf(prototype)] = a
}

// Find locates an adapter for x: exact type match first, then the
// Iterable capability.  A false return means x is not a container.
func (r *Registry) Find(x interface{}) (*Adapter, bool) {
	if x == nil {
		return nil, false
	}
	if a, have := r.adapters[reflect.TypeOf(x)]; have {
		return a, true
	}
	if it, is := x.(Iterable); is {
		return &Adapter{
			ToIter: func(interface{}) []interface{} {
				return it.ToIter()
			},
			FromIter: func(template interface{}, elems []interface{}) (interface{}, error) {
				return template.(Iterable).FromIter(elems)
			},
		}, true
	}
	return nil, false
}

// DefaultRegistry is the process-wide registry used by the traversals.
var DefaultRegistry = NewRegistry()

// ToIter iterates x using the DefaultRegistry.  The second return
// value is false when x is not a container.
func ToIter(x interface{}) ([]interface{}, bool) {
	a, have := DefaultRegistry.Find(x)
	if !have {
		return nil, false
	}
	return a.ToIter(x), true
}

// FromIter rebuilds a container of the template's type from elems
// using the DefaultRegistry.
func FromIter(template interface{}, elems []interface{}) (interface{}, error) {
	a, have := DefaultRegistry.Find(template)
	if !have {
		return nil, fmt.Errorf("no adapter for %T", template)
	}
	return a.FromIter(template, elems)
}

// IsContainer reports whether the DefaultRegistry can iterate x.
func IsContainer(x interface{}) bool {
	_, have := DefaultRegistry.Find(x)
	return have
}

func init() {
	DefaultRegistry.Register([]interface{}{}, &Adapter{
		ToIter: func(container interface{}) []interface{} {
			xs := container.([]interface{})
			elems := make([]interface{}, len(xs))
			copy(elems, xs)
			return elems
		},
		FromIter: func(template interface{}, elems []interface{}) (interface{}, error) {
			acc := make([]interface{}, 0, len(elems))
			for _, elem := range elems {
				if IsDrop(elem) {
					continue
				}
				acc = append(acc, elem)
			}
			return acc, nil
		},
	})

	DefaultRegistry.Register(map[string]interface{}{}, &Adapter{
		ToIter: func(container interface{}) []interface{} {
			m := container.(map[string]interface{})
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			// Go maps have no insertion order, so lexicographic
			// key order is the canonical order here.
			sort.Strings(keys)
			elems := make([]interface{}, 0, len(keys))
			for _, k := range keys {
				elems = append(elems, Pair{Key: k, Value: m[k]})
			}
			return elems
		},
		FromIter: func(template interface{}, elems []interface{}) (interface{}, error) {
			m := make(map[string]interface{}, len(elems))
			for _, elem := range elems {
				if IsDrop(elem) {
					continue
				}
				p, is := elem.(Pair)
				if !is {
					return nil, fmt.Errorf("map rebuild needs a Pair, not a %T", elem)
				}
				k, is := p.Key.(string)
				if !is {
					return nil, fmt.Errorf("map rebuild needs a string key, not a %T", p.Key)
				}
				// A duplicate key means the later insertion wins.
				m[k] = p.Value
			}
			return m, nil
		},
	})

	DefaultRegistry.Register(&OrderedMap{}, &Adapter{
		ToIter: func(container interface{}) []interface{} {
			return container.(*OrderedMap).pairs()
		},
		FromIter: func(template interface{}, elems []interface{}) (interface{}, error) {
			m := NewOrderedMap()
			for _, elem := range elems {
				if IsDrop(elem) {
					continue
				}
				p, is := elem.(Pair)
				if !is {
					return nil, fmt.Errorf("map rebuild needs a Pair, not a %T", elem)
				}
				k, is := p.Key.(string)
				if !is {
					return nil, fmt.Errorf("map rebuild needs a string key, not a %T", p.Key)
				}
				m.Set(k, p.Value)
			}
			return m, nil
		},
	})
}
