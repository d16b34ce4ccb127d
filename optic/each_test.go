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
	"reflect"
	"testing"

	"github.com/Comcast/optics/hooks"
)

func TestEachOver(t *testing.T) {
	got, err := Over(Each(), []interface{}{1, 2, 3}, incInt)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, wanted %#v", got, want)
	}
}

func TestEachMapPairs(t *testing.T) {
	state := map[string]interface{}{"one": 1}

	got, err := ToList(Each(), state)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{hooks.Pair{Key: "one", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, wanted %#v", got, want)
	}
}

func TestEachDrop(t *testing.T) {
	got, err := Over(Each(), []interface{}{1, 2, 3, 4}, func(x interface{}) (interface{}, error) {
		if x.(int)%2 == 0 {
			return hooks.Drop, nil
		}
		return x, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, wanted %#v", got, want)
	}
}

func TestEachNonContainer(t *testing.T) {
	// A state with no adapter has no foci, so Over is a no-op.
	got, err := Over(Each(), 42, incInt)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %#v", got)
	}

	foci, err := ToList(Each(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(foci) != 0 {
		t.Fatalf("got %#v", foci)
	}
}

func TestItemsOrder(t *testing.T) {
	state := hooks.NewOrderedMap().Set("a", 1).Set("b", 2)

	got, err := ToList(Items(), state)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{
		hooks.Pair{Key: "a", Value: 1},
		hooks.Pair{Key: "b", Value: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, wanted %#v", got, want)
	}

	// An identity rewrite preserves the entry order.
	rewritten, err := Over(Items(), state, same)
	if err != nil {
		t.Fatal(err)
	}
	om := rewritten.(*hooks.OrderedMap)
	if !reflect.DeepEqual(om.Keys(), []string{"a", "b"}) {
		t.Fatalf("got keys %#v", om.Keys())
	}
}

func TestItemsRewriteValues(t *testing.T) {
	state := map[string]interface{}{"one": 1, "two": 2}

	got, err := Over(Items(), state, func(x interface{}) (interface{}, error) {
		p := x.(hooks.Pair)
		return hooks.Pair{Key: p.Key, Value: p.Value.(int) + 1}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"one": 2, "two": 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, wanted %#v", got, want)
	}
}

func TestItemsDuplicateKey(t *testing.T) {
	state := hooks.NewOrderedMap().Set("a", 1).Set("b", 2)

	// Rewriting every key to "x" means the later insertion wins.
	got, err := Over(Items(), state, func(x interface{}) (interface{}, error) {
		p := x.(hooks.Pair)
		return hooks.Pair{Key: "x", Value: p.Value}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	om := got.(*hooks.OrderedMap)
	if om.Len() != 1 {
		t.Fatalf("got %#v", om.Keys())
	}
	v, _ := om.Get("x")
	if v != 2 {
		t.Fatalf("got %#v", v)
	}
}

func TestItemsOnNonMap(t *testing.T) {
	if _, err := ToList(Items(), []interface{}{1, 2}); err == nil {
		t.Fatal("expected a usage error")
	} else if _, is := err.(*UsageError); !is {
		t.Fatalf("expected a UsageError, got %T: %v", err, err)
	}
}
