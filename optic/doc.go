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

// Package optic implements folds, traversals, and lenses over nested,
// heterogeneous values: slices, maps, field-bearing structs, strings,
// and scalars, mixed freely.
//
// An Optic describes where to focus.  Three verbs work uniformly on
// every optic:
//
//	ToList(o, state)       every focused value, in order
//	Over(o, state, f)      a new state with every focus rewritten
//	Set(o, state, x)       Over with a constant
//
// Optics compose with Compose, or fluently from a Bound:
//
//	Bind(data).Each().Field("name").ToList()
//
// The deep workhorse is Recur, which finds every value of a target
// type anywhere in a state:
//
//	data := []interface{}{
//		[]interface{}{1, 2, 100.0},
//		[]interface{}{3, "hello", []interface{}{map[string]interface{}{}, 4}, 5},
//	}
//	optic.ToList(optic.Recur[int](), data)
//	// [1 2 3 4 5]
//
// Container-specific behavior lives in package hooks; register an
// adapter there to traverse your own container types.
//
// Everything here is synchronous and pure: states are never modified
// in place, and rewrites return new top-level values.
package optic
