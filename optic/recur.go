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

package optic

import (
	"fmt"
	"reflect"

	"github.com/Comcast/optics/hooks"
)

// RecurTraversal probes arbitrarily deep into a state, focusing every
// value that satisfies its target predicate.  Descent at a node tries
// the structural adapters first, then named fields (lexicographic
// order).  A node that supports neither yields nothing.
//
// A matched focus is never itself searched for nested matches: the
// first match along each path wins, even if the matched value is a
// container that could hold further matches.  That's policy, not a
// bug.
//
// Be careful with this; it can focus things you might not expect.
type RecurTraversal struct {
	match func(interface{}) bool
	name  string
}

// Recur focuses every value of type T anywhere inside the state.
func Recur[T any]() Optic {
	var zero T
	return Derive(&RecurTraversal{
		match: func(x interface{}) bool {
			_, is := x.(T)
			return is
		},
		name: fmt.Sprintf("%T", zero),
	})
}

// RecurWhere is Recur with an explicit predicate instead of a type.
// The name only shows up in diagnostics.
func RecurWhere(name string, pred func(interface{}) bool) Optic {
	return Derive(&RecurTraversal{match: pred, name: name})
}

func (t *RecurTraversal) String() string {
	return "Recur(" + t.name + ")"
}

// ref identifies a node by reference, not by value.  Slices carry
// their length since slices of one backing array share a pointer.
type ref struct {
	ptr uintptr
	n   int
}

func nodeRef(x interface{}) (ref, bool) {
	if x == nil {
		return ref{}, false
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Map, reflect.Ptr:
		if v.IsNil() {
			return ref{}, false
		}
		return ref{ptr: v.Pointer()}, true
	case reflect.Slice:
		if v.IsNil() {
			return ref{}, false
		}
		return ref{ptr: v.Pointer(), n: v.Len()}, true
	}
	return ref{}, false
}

func (t *RecurTraversal) Folder(state interface{}) ([]interface{}, error) {
	var acc []interface{}
	if err := t.fold(state, &acc, make(map[ref]bool)); err != nil {
		return nil, err
	}
	return acc, nil
}

func (t *RecurTraversal) fold(state interface{}, acc *[]interface{}, onPath map[ref]bool) error {
	if t.match(state) {
		*acc = append(*acc, state)
		return nil
	}
	if id, keyed := nodeRef(state); keyed {
		if onPath[id] {
			return &CyclicStructure{}
		}
		onPath[id] = true
		defer delete(onPath, id)
	}
	if elems, is := hooks.ToIter(state); is {
		for _, elem := range elems {
			if err := t.fold(elem, acc, onPath); err != nil {
				return err
			}
		}
		return nil
	}
	if names, is := hooks.Fields(state); is {
		for _, name := range names {
			sub, _ := hooks.GetField(state, name)
			if err := t.fold(sub, acc, onPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// count reports how many foci Folder would yield under state.  Only
// called during rebuilds, after Folder has already proved the state
// acyclic.
func (t *RecurTraversal) count(state interface{}) int {
	var acc []interface{}
	t.fold(state, &acc, make(map[ref]bool))
	return len(acc)
}

func (t *RecurTraversal) Builder(state interface{}, values []interface{}) (interface{}, error) {
	r := &rebuilder{
		t:      t,
		cache:  make(map[ref]interface{}),
		onPath: make(map[ref]bool),
	}
	built, rest, err := r.build(state, values)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &StructuralMismatch{Want: len(values) - len(rest), Got: len(values)}
	}
	return built, nil
}

// rebuilder carries the per-call rebuild cache.  The cache is keyed
// by reference identity, so a substate that appears several times in
// the graph (shared maps, slices, pointers) is rebuilt once and the
// rebuild is shared.  Values with no usable identity just bypass the
// cache.  The cache dies with the call.
type rebuilder struct {
	t      *RecurTraversal
	cache  map[ref]interface{}
	onPath map[ref]bool
}

// build mirrors fold's branch structure, consuming values from the
// front and returning the rest.
func (r *rebuilder) build(state interface{}, values []interface{}) (interface{}, []interface{}, error) {
	if r.t.match(state) {
		if len(values) == 0 {
			return nil, nil, &StructuralMismatch{Want: 1, Got: 0}
		}
		return values[0], values[1:], nil
	}

	id, keyed := nodeRef(state)
	if keyed {
		if r.onPath[id] {
			return nil, nil, &CyclicStructure{}
		}
		if prior, have := r.cache[id]; have {
			n := r.t.count(state)
			if len(values) < n {
				return nil, nil, &StructuralMismatch{Want: n, Got: len(values)}
			}
			return prior, values[n:], nil
		}
		r.onPath[id] = true
		defer delete(r.onPath, id)
	}

	// An untouched substructure passes through unchanged.
	if r.t.count(state) == 0 {
		return state, values, nil
	}

	if elems, is := hooks.ToIter(state); is {
		rebuilt := make([]interface{}, len(elems))
		var err error
		for i, elem := range elems {
			if rebuilt[i], values, err = r.build(elem, values); err != nil {
				return nil, nil, err
			}
		}
		built, err := hooks.FromIter(state, rebuilt)
		if err != nil {
			return nil, nil, err
		}
		if keyed {
			r.cache[id] = built
		}
		return built, values, nil
	}

	if names, is := hooks.Fields(state); is {
		built := state
		for _, name := range names {
			sub, _ := hooks.GetField(state, name)
			if r.t.count(sub) == 0 {
				continue
			}
			newSub, rest, err := r.build(sub, values)
			if err != nil {
				return nil, nil, err
			}
			values = rest
			if built, err = hooks.SetField(built, name, newSub); err != nil {
				return nil, nil, err
			}
		}
		if keyed {
			r.cache[id] = built
		}
		return built, values, nil
	}

	return state, values, nil
}
