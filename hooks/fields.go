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
	"fmt"
	"reflect"
	"sort"
)

// FieldEnumerable lets a type expose named fields to traversals
// without reflection.
//
// SetField returns the updated object; the receiver should not be
// modified.
type FieldEnumerable interface {
	Fields() []string
	GetField(name string) (interface{}, bool)
	SetField(name string, value interface{}) (interface{}, error)
}

// Fields lists x's field names in lexicographic order.
//
// The FieldEnumerable capability wins; otherwise exported struct
// fields are listed via reflection.  A false return means x has no
// fields, which a traversal treats as "not a container" rather than
// as an error.
func Fields(x interface{}) ([]string, bool) {
	if fe, is := x.(FieldEnumerable); is {
		names := append([]string{}, fe.Fields()...)
		sort.Strings(names)
		return names, true
	}
	v, ok := structValue(x)
	if !ok {
		return nil, false
	}
	t := v.Type()
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		names = append(names, f.Name)
	}
	if len(names) == 0 {
		return nil, false
	}
	sort.Strings(names)
	return names, true
}

// GetField reads a named field of x.  Works on FieldEnumerables,
// structs (and pointers to structs), map[string]interface{}, and
// *OrderedMap.
func GetField(x interface{}, name string) (interface{}, bool) {
	switch vv := x.(type) {
	case FieldEnumerable:
		return vv.GetField(name)
	case map[string]interface{}:
		v, have := vv[name]
		return v, have
	case *OrderedMap:
		return vv.Get(name)
	}
	v, ok := structValue(x)
	if !ok {
		return nil, false
	}
	f := v.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// SetField writes a named field, returning a new object.  The input
// is never modified: structs are copied, and a pointer to a struct
// comes back as a pointer to a fresh copy.
func SetField(x interface{}, name string, value interface{}) (interface{}, error) {
	switch vv := x.(type) {
	case FieldEnumerable:
		return vv.SetField(name, value)
	case map[string]interface{}:
		m := make(map[string]interface{}, len(vv))
		for k, v := range vv {
			m[k] = v
		}
		m[name] = value
		return m, nil
	case *OrderedMap:
		m := NewOrderedMap()
		for _, k := range vv.keys {
			m.Set(k, vv.values[k])
		}
		m.Set(name, value)
		return m, nil
	}

	v := reflect.ValueOf(x)
	ptr := v.Kind() == reflect.Ptr
	if ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("can't set field %q of a nil %T", name, x)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("can't set field %q of a %T", name, x)
	}

	fresh := reflect.New(v.Type())
	fresh.Elem().Set(v)
	f := fresh.Elem().FieldByName(name)
	if !f.IsValid() {
		return nil, fmt.Errorf("no field %q in %T", name, x)
	}
	if !f.CanSet() {
		return nil, fmt.Errorf("can't set field %q of a %T", name, x)
	}
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
	} else {
		given := reflect.ValueOf(value)
		if !given.Type().AssignableTo(f.Type()) {
			return nil, fmt.Errorf("can't assign a %T to field %q of a %T", value, name, x)
		}
		f.Set(given)
	}
	if ptr {
		return fresh.Interface(), nil
	}
	return fresh.Elem().Interface(), nil
}

func structValue(x interface{}) (reflect.Value, bool) {
	if x == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(x)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return v, true
}
