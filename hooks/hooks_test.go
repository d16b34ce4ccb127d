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
	"reflect"
	"testing"
)

func TestSliceAdapter(t *testing.T) {
	elems, is := ToIter([]interface{}{1, 2, 3})
	if !is {
		t.Fatal("no adapter for slices")
	}
	if !reflect.DeepEqual(elems, []interface{}{1, 2, 3}) {
		t.Fatalf("got %#v", elems)
	}

	rebuilt, err := FromIter([]interface{}{1, 2, 3}, []interface{}{4, Drop, 5})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rebuilt, []interface{}{4, 5}) {
		t.Fatalf("got %#v", rebuilt)
	}
}

func TestMapAdapter(t *testing.T) {
	m := map[string]interface{}{"b": 2, "a": 1}

	elems, is := ToIter(m)
	if !is {
		t.Fatal("no adapter for maps")
	}
	// Lexicographic key order for plain Go maps.
	want := []interface{}{
		Pair{Key: "a", Value: 1},
		Pair{Key: "b", Value: 2},
	}
	if !reflect.DeepEqual(elems, want) {
		t.Fatalf("got %#v", elems)
	}

	rebuilt, err := FromIter(m, []interface{}{
		Pair{Key: "a", Value: 10},
		Pair{Key: "b", Value: Drop},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rebuilt, map[string]interface{}{"a": 10}) {
		t.Fatalf("got %#v", rebuilt)
	}
}

func TestNotAContainer(t *testing.T) {
	for _, x := range []interface{}{42, "a string", 1.5, nil, true} {
		if _, is := ToIter(x); is {
			t.Fatalf("%#v should not be a container", x)
		}
	}
}

type knapsack struct {
	things []interface{}
}

func (k knapsack) ToIter() []interface{} {
	return append([]interface{}{}, k.things...)
}

func (k knapsack) FromIter(elems []interface{}) (interface{}, error) {
	acc := make([]interface{}, 0, len(elems))
	for _, elem := range elems {
		if IsDrop(elem) {
			continue
		}
		acc = append(acc, elem)
	}
	return knapsack{things: acc}, nil
}

func TestIterableCapability(t *testing.T) {
	k := knapsack{things: []interface{}{1, 2}}

	elems, is := ToIter(k)
	if !is {
		t.Fatal("Iterable capability not found")
	}
	if !reflect.DeepEqual(elems, []interface{}{1, 2}) {
		t.Fatalf("got %#v", elems)
	}

	rebuilt, err := FromIter(k, []interface{}{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rebuilt, knapsack{things: []interface{}{3, 4}}) {
		t.Fatalf("got %#v", rebuilt)
	}
}

func TestExactTypeBeatsCapability(t *testing.T) {
	r := NewRegistry()
	r.Register(knapsack{}, &Adapter{
		ToIter: func(interface{}) []interface{} {
			return []interface{}{"registered"}
		},
		FromIter: func(template interface{}, elems []interface{}) (interface{}, error) {
			return template, nil
		},
	})

	a, have := r.Find(knapsack{things: []interface{}{1}})
	if !have {
		t.Fatal("no adapter")
	}
	if got := a.ToIter(nil); !reflect.DeepEqual(got, []interface{}{"registered"}) {
		t.Fatalf("got %#v", got)
	}
}

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap().Set("z", 1).Set("a", 2).Set("z", 3)

	if !reflect.DeepEqual(m.Keys(), []string{"z", "a"}) {
		t.Fatalf("got %#v", m.Keys())
	}
	if v, _ := m.Get("z"); v != 3 {
		t.Fatalf("got %#v", v)
	}

	m.Delete("z")
	if !reflect.DeepEqual(m.Keys(), []string{"a"}) {
		t.Fatalf("got %#v", m.Keys())
	}

	js, err := NewOrderedMap().Set("b", 1).Set("a", 2).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != `{"b":1,"a":2}` {
		t.Fatalf("got %s", js)
	}
}

func TestFields(t *testing.T) {
	type gadget struct {
		Name    string
		Weight  int
		private bool
	}

	names, is := Fields(gadget{})
	if !is {
		t.Fatal("no fields")
	}
	if !reflect.DeepEqual(names, []string{"Name", "Weight"}) {
		t.Fatalf("got %#v", names)
	}

	g := gadget{Name: "sprocket", Weight: 3}

	v, have := GetField(g, "Name")
	if !have || v != "sprocket" {
		t.Fatalf("got %#v", v)
	}

	updated, err := SetField(g, "Weight", 4)
	if err != nil {
		t.Fatal(err)
	}
	if updated.(gadget).Weight != 4 {
		t.Fatalf("got %#v", updated)
	}
	if g.Weight != 3 {
		t.Fatal("input was modified")
	}

	// Through a pointer we still get a fresh copy.
	updatedPtr, err := SetField(&g, "Weight", 5)
	if err != nil {
		t.Fatal(err)
	}
	if updatedPtr.(*gadget).Weight != 5 {
		t.Fatalf("got %#v", updatedPtr)
	}
	if g.Weight != 3 {
		t.Fatal("input was modified")
	}
}

type tagged struct {
	kind  string
	value interface{}
}

func (x tagged) Fields() []string {
	return []string{"value", "kind"}
}

func (x tagged) GetField(name string) (interface{}, bool) {
	switch name {
	case "kind":
		return x.kind, true
	case "value":
		return x.value, true
	}
	return nil, false
}

func (x tagged) SetField(name string, value interface{}) (interface{}, error) {
	switch name {
	case "kind":
		return tagged{kind: value.(string), value: x.value}, nil
	case "value":
		return tagged{kind: x.kind, value: value}, nil
	}
	return nil, nil
}

func TestFieldEnumerable(t *testing.T) {
	x := tagged{kind: "num", value: 1}

	names, is := Fields(x)
	if !is {
		t.Fatal("no fields")
	}
	// Lexicographic, regardless of what the type declares.
	if !reflect.DeepEqual(names, []string{"kind", "value"}) {
		t.Fatalf("got %#v", names)
	}

	updated, err := SetField(x, "value", 2)
	if err != nil {
		t.Fatal(err)
	}
	if updated.(tagged).value != 2 {
		t.Fatalf("got %#v", updated)
	}
}
