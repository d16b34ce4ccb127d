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
	"github.com/Comcast/optics/hooks"
)

// EachTraversal focuses everything its state's adapter iterates over.
// For a map-like container the foci are hooks.Pairs, not bare values.
//
// A state with no adapter yields no foci, which makes Over a no-op on
// it rather than an error.
type EachTraversal struct{}

// Each focuses every element of an adapter-iterable container.
func Each() Optic {
	return Derive(EachTraversal{})
}

func (EachTraversal) Folder(state interface{}) ([]interface{}, error) {
	elems, is := hooks.ToIter(state)
	if !is {
		return nil, nil
	}
	return elems, nil
}

func (EachTraversal) Builder(state interface{}, values []interface{}) (interface{}, error) {
	return hooks.FromIter(state, values)
}

// ItemsTraversal focuses the key-value Pairs of a map-like container.
//
// Rebuilding starts from an empty map of the same concrete type and
// inserts pairs in fold order, so untouched entries keep their
// original order and a transformed duplicate key means the later
// insertion wins.  A Pair whose value is hooks.Drop is skipped.
type ItemsTraversal struct{}

// Items focuses the entries of a map-like container.
func Items() Optic {
	return Derive(ItemsTraversal{})
}

func (ItemsTraversal) Folder(state interface{}) ([]interface{}, error) {
	elems, is := hooks.ToIter(state)
	if !is {
		return nil, &UsageError{Op: "items", Reason: "state is not a container"}
	}
	for _, elem := range elems {
		if _, is := elem.(hooks.Pair); !is {
			return nil, &UsageError{Op: "items", Reason: "state is not map-like"}
		}
	}
	return elems, nil
}

func (ItemsTraversal) Builder(state interface{}, values []interface{}) (interface{}, error) {
	return hooks.FromIter(state, values)
}
