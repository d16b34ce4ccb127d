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

// Optic is a composable descriptor of where to focus inside a state.
//
// Most optics are built from a FolderBuilder via Derive.  Optics that
// delegate to other optics (see zoom.go) implement Evaluate directly.
type Optic interface {
	// Evaluate runs the evaluator across the foci of state and
	// returns one wrapped result.
	Evaluate(ev Evaluator, state interface{}) (Wrapped, error)
}

// FolderBuilder is the minimal contract for a flat traversal.
//
// Builder(state, values) must consume exactly as many values, in the
// same order, as Folder(state) yields for that same state.  A count
// mismatch is a StructuralMismatch: an adapter or recursion defect,
// never silently recovered.
type FolderBuilder interface {
	// Folder returns the ordered foci of state.
	Folder(state interface{}) ([]interface{}, error)

	// Builder rebuilds state with the foci replaced positionally
	// by values.
	Builder(state interface{}, values []interface{}) (interface{}, error)
}

// derived wires a FolderBuilder into the evaluation protocol.
type derived struct {
	FolderBuilder
}

// Derive turns a FolderBuilder into a full Optic.
func Derive(fb FolderBuilder) Optic {
	return derived{FolderBuilder: fb}
}

func (t derived) Evaluate(ev Evaluator, state interface{}) (Wrapped, error) {
	foci, err := t.Folder(state)
	if err != nil {
		return nil, err
	}
	if len(foci) == 0 {
		return ev.Pure(state), nil
	}
	ws := make([]Wrapped, len(foci))
	for i, focus := range foci {
		w, err := ev.Run(focus)
		if err != nil {
			return nil, err
		}
		ws[i] = w
	}
	var berr error
	w := ev.Collect(ws).Map(func(x interface{}) interface{} {
		values, is := x.([]interface{})
		if !is {
			berr = &UsageError{Op: "evaluate", Reason: "evaluator did not collect a list"}
			return nil
		}
		built, err := t.Builder(state, values)
		if err != nil {
			berr = err
			return nil
		}
		return built
	})
	if berr != nil {
		return nil, berr
	}
	return w, nil
}

// ToList is the materialized fold: every focus of the optic in state,
// in order.  Builders are never called.
func ToList(o Optic, state interface{}) ([]interface{}, error) {
	w, err := o.Evaluate(foldEvaluator{}, state)
	if err != nil {
		return nil, err
	}
	return w.(folded).values, nil
}

// Over returns a new state with every focus rewritten by f.
// Untouched substructures pass through unchanged.
func Over(o Optic, state interface{}, f Transform) (interface{}, error) {
	w, err := o.Evaluate(overEvaluator{f: f}, state)
	if err != nil {
		return nil, err
	}
	return w.(rewrapped).value, nil
}

// Set is Over with a constant.
func Set(o Optic, state interface{}, value interface{}) (interface{}, error) {
	return Over(o, state, func(interface{}) (interface{}, error) {
		return value, nil
	})
}

// composed chains two optics: the outer's foci become the inner's
// states.
type composed struct {
	outer Optic
	inner Optic
}

// Compose chains optics left to right: Compose(a, b) focuses b's foci
// within each of a's foci.
func Compose(os ...Optic) Optic {
	switch len(os) {
	case 0:
		return identity{}
	case 1:
		return os[0]
	}
	o := os[0]
	for _, next := range os[1:] {
		o = composed{outer: o, inner: next}
	}
	return o
}

func (c composed) Evaluate(ev Evaluator, state interface{}) (Wrapped, error) {
	d := &descender{Evaluator: ev, inner: c.inner}
	w, err := c.outer.Evaluate(d, state)
	if err != nil {
		return nil, err
	}
	if d.err != nil {
		return nil, d.err
	}
	return w, nil
}

// identity focuses the whole state.
type identity struct{}

func (identity) Evaluate(ev Evaluator, state interface{}) (Wrapped, error) {
	return ev.Run(state)
}

// Identity returns the optic that focuses the whole state.
func Identity() Optic {
	return identity{}
}
