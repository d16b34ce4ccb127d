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

// FieldLens focuses a single named field of the state: a
// map[string]interface{} key, an *OrderedMap key, a FieldEnumerable
// field, or an exported struct field via reflection.
type FieldLens struct {
	Name string
}

// Field focuses the named field of the state.
func Field(name string) Optic {
	return Derive(FieldLens{Name: name})
}

func (l FieldLens) Folder(state interface{}) ([]interface{}, error) {
	v, have := hooks.GetField(state, l.Name)
	if !have {
		return nil, &UsageError{Op: "field", Reason: `no field "` + l.Name + `" in state`}
	}
	return []interface{}{v}, nil
}

func (l FieldLens) Builder(state interface{}, values []interface{}) (interface{}, error) {
	if len(values) != 1 {
		return nil, &StructuralMismatch{Want: 1, Got: len(values)}
	}
	return hooks.SetField(state, l.Name, values[0])
}
