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

// Focusable marks values that carry their own optic.  It replaces the
// old trick of probing for a magic attribute: a value either declares
// the capability or it doesn't.
type Focusable interface {
	// Focus returns the carried optic and the substate it is
	// bound to.
	Focus() (Optic, interface{})
}

// ZoomTraversal treats its state as a bound (optic, substate) pair
// and evaluates the stored optic against the stored substate.  This
// is how one optic's result becomes composable as a new optic target.
type ZoomTraversal struct{}

func Zoom() Optic {
	return ZoomTraversal{}
}

func (ZoomTraversal) Evaluate(ev Evaluator, state interface{}) (Wrapped, error) {
	f, is := state.(Focusable)
	if !is {
		return nil, &UsageError{Op: "zoom", Reason: "state does not carry an optic"}
	}
	o, sub := f.Focus()
	if o == nil {
		o = identity{}
	}
	return o.Evaluate(ev, sub)
}

// ZoomFieldTraversal requires the named field of the state to carry
// an optic, and evaluates that optic against the original state, not
// against whatever substate the field's optic happens to be bound to.
type ZoomFieldTraversal struct {
	Name string
}

func ZoomField(name string) Optic {
	return ZoomFieldTraversal{Name: name}
}

func (t ZoomFieldTraversal) Evaluate(ev Evaluator, state interface{}) (Wrapped, error) {
	o, _, err := fieldOptic(state, t.Name)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &UsageError{Op: "zoomField", Reason: `field "` + t.Name + `" does not carry an optic`}
	}
	return o.Evaluate(ev, state)
}

// AutoFieldTraversal focuses a named field, but if the field's value
// carries an optic then evaluation is delegated to that optic (still
// against the original state).  Plain fields fall back to FieldLens.
type AutoFieldTraversal struct {
	Name string
}

func AutoField(name string) Optic {
	return AutoFieldTraversal{Name: name}
}

func (t AutoFieldTraversal) Evaluate(ev Evaluator, state interface{}) (Wrapped, error) {
	o, _, err := fieldOptic(state, t.Name)
	if err != nil {
		return nil, err
	}
	if o == nil {
		o = Field(t.Name)
	}
	return o.Evaluate(ev, state)
}

// fieldOptic reads the named field and reports the optic it carries,
// if any.
func fieldOptic(state interface{}, name string) (Optic, interface{}, error) {
	o, err := fieldValue(state, name)
	if err != nil {
		return nil, nil, err
	}
	if f, is := o.(Focusable); is {
		carried, sub := f.Focus()
		return carried, sub, nil
	}
	return nil, nil, nil
}

func fieldValue(state interface{}, name string) (interface{}, error) {
	v, have := hooks.GetField(state, name)
	if !have {
		return nil, &UsageError{Op: "zoomField", Reason: `no field "` + name + `" in state`}
	}
	return v, nil
}
