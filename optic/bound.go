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

// Bound pairs an optic with the state it focuses.  It's both the
// fluent handle for chaining descriptors and the Focusable variant
// that delegation optics dispatch on.
type Bound struct {
	Optic Optic
	State interface{}
}

// Bind starts a chain at the whole state.
func Bind(state interface{}) *Bound {
	return &Bound{State: state}
}

func (b *Bound) Focus() (Optic, interface{}) {
	return b.Optic, b.State
}

// Then extends the chain with another optic.
func (b *Bound) Then(o Optic) *Bound {
	if b.Optic == nil {
		return &Bound{Optic: o, State: b.State}
	}
	return &Bound{Optic: Compose(b.Optic, o), State: b.State}
}

func (b *Bound) Each() *Bound {
	return b.Then(Each())
}

func (b *Bound) Items() *Bound {
	return b.Then(Items())
}

func (b *Bound) Field(name string) *Bound {
	return b.Then(Field(name))
}

func (b *Bound) Matches(pattern string) *Bound {
	return b.Then(Matches(pattern))
}

// RecurWhere extends the chain with deep recursion.  Methods can't
// have type parameters, so the typed constructor Recur[T] goes through
// Then: Bind(state).Then(Recur[string]()).
func (b *Bound) RecurWhere(name string, pred func(interface{}) bool) *Bound {
	return b.Then(RecurWhere(name, pred))
}

func (b *Bound) optic() Optic {
	if b.Optic == nil {
		return identity{}
	}
	return b.Optic
}

func (b *Bound) ToList() ([]interface{}, error) {
	return ToList(b.optic(), b.State)
}

func (b *Bound) Over(f Transform) (interface{}, error) {
	return Over(b.optic(), b.State, f)
}

func (b *Bound) Set(value interface{}) (interface{}, error) {
	return Set(b.optic(), b.State, value)
}
