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

// This file is the applicative evaluation protocol: the little effect
// abstraction that lets one recursive walk serve both fold and over.
//
// An Evaluator turns foci into Wrapped results.  ToList uses an
// evaluator whose Wrapped is a collected sequence (so builders are
// bypassed entirely), and Over uses an evaluator whose Wrapped is a
// single rebuilt value.
//
// Go generics can't abstract over the wrapper type itself (no
// higher-kinded type parameters), so Wrapped is an interface with one
// implementation per evaluator.

// Transform rewrites one focus.  The first error aborts the walk.
type Transform func(focus interface{}) (interface{}, error)

// Wrapped is an evaluator-specific wrapper around an in-progress
// result.
type Wrapped interface {
	// Map post-processes the wrapped result without unwrapping it.
	// A fold's Wrapped ignores g.
	Map(g func(interface{}) interface{}) Wrapped
}

// Evaluator is the evaluation protocol handed to Optic.Evaluate.
type Evaluator interface {
	// Pure wraps a value that needs no transformation.
	Pure(x interface{}) Wrapped

	// Run transforms one focus and wraps the result.
	Run(focus interface{}) (Wrapped, error)

	// Collect combines wrapped results positionally into one
	// wrapped ordered list ([]interface{} under Map).
	Collect(ws []Wrapped) Wrapped
}

// folded is the fold specialization: Wrapped is just the collected
// foci, and Map does nothing since there is no state to rebuild.
type folded struct {
	values []interface{}
}

func (w folded) Map(func(interface{}) interface{}) Wrapped {
	return w
}

type foldEvaluator struct{}

func (foldEvaluator) Pure(x interface{}) Wrapped {
	return folded{}
}

func (foldEvaluator) Run(focus interface{}) (Wrapped, error) {
	return folded{values: []interface{}{focus}}, nil
}

func (foldEvaluator) Collect(ws []Wrapped) Wrapped {
	acc := folded{values: make([]interface{}, 0, len(ws))}
	for _, w := range ws {
		acc.values = append(acc.values, w.(folded).values...)
	}
	return acc
}

// rewrapped is the over specialization: Wrapped holds exactly one
// value (a focus result or a rebuilt state).
type rewrapped struct {
	value interface{}
}

func (w rewrapped) Map(g func(interface{}) interface{}) Wrapped {
	return rewrapped{value: g(w.value)}
}

type overEvaluator struct {
	f Transform
}

func (overEvaluator) Pure(x interface{}) Wrapped {
	return rewrapped{value: x}
}

func (e overEvaluator) Run(focus interface{}) (Wrapped, error) {
	y, err := e.f(focus)
	if err != nil {
		return nil, err
	}
	return rewrapped{value: y}, nil
}

func (overEvaluator) Collect(ws []Wrapped) Wrapped {
	values := make([]interface{}, len(ws))
	for i, w := range ws {
		values[i] = w.(rewrapped).value
	}
	return rewrapped{value: values}
}

// descender routes an evaluator through an inner optic.  It's how
// composed optics and delegations forward the walk: the outer optic's
// foci become states for the inner optic.
type descender struct {
	Evaluator
	inner Optic
	err   error
}

func (d *descender) Run(focus interface{}) (Wrapped, error) {
	w, err := d.inner.Evaluate(d.Evaluator, focus)
	if err != nil {
		d.err = err
		return nil, err
	}
	return w, nil
}
