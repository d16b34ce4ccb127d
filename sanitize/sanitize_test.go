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

package sanitize

import (
	"reflect"
	"testing"

	. "github.com/Comcast/optics/util/testutil"
)

var testPolicyYAML = []byte(`
name: upstream
doc: |
  Strips upstream account attributes.
rules:
  - attr: api_key
    expect: sk-\w{8}
  - attr: organization
    expect: user-\w{4}
  - attr: created
    expect: ^\d+$
`)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(testPolicyYAML)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "upstream" {
		t.Fatalf("got %#v", p.Name)
	}
	if len(p.Rules) != 3 {
		t.Fatalf("got %#v", p.Rules)
	}
	if p.Rules[0].Attr != "api_key" {
		t.Fatalf("got %#v", p.Rules[0])
	}
}

func TestParsePolicyBad(t *testing.T) {
	if _, err := ParsePolicy([]byte(`doc: nameless`)); err == nil {
		t.Fatal("expected an error for a nameless policy")
	}
	if _, err := ParsePolicy([]byte("name: p\nrules:\n  - attr: a\n    expect: '('\n")); err == nil {
		t.Fatal("expected an error for a bad pattern")
	}
}

func TestApply(t *testing.T) {
	p, err := ParsePolicy(testPolicyYAML)
	if err != nil {
		t.Fatal(err)
	}

	m := Dwimjs(`{"api_key":"sk-deadbeef","model":"gpt","created":1677652288}`).(map[string]interface{})

	clean, err := p.Apply(m)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"model": "gpt"}
	if !reflect.DeepEqual(clean, want) {
		t.Fatalf("got %#v, wanted %#v", clean, want)
	}

	// The input keeps its secrets.
	if _, have := m["api_key"]; !have {
		t.Fatal("input was modified")
	}
}

func TestApplyViolation(t *testing.T) {
	p, err := ParsePolicy(testPolicyYAML)
	if err != nil {
		t.Fatal(err)
	}

	m := map[string]interface{}{"api_key": "not-a-key"}

	if _, err := p.Apply(m); err == nil {
		t.Fatal("expected a violation")
	} else if _, is := err.(*Violation); !is {
		t.Fatalf("expected a Violation, got %T: %v", err, err)
	}
}

func TestSanitizeDeep(t *testing.T) {
	p, err := ParsePolicy(testPolicyYAML)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSanitizer(p)
	if err != nil {
		t.Fatal(err)
	}

	data := Dwimjs(`{
		"api_key": "sk-deadbeef",
		"choices": [
			{"organization": "user-aaaa", "text": "hi"},
			{"text": "there"}
		],
		"usage": {"created": 42, "tokens": 7}
	}`)

	got, err := s.Sanitize(data)
	if err != nil {
		t.Fatal(err)
	}
	want := Dwimjs(`{
		"choices": [
			{"text": "hi"},
			{"text": "there"}
		],
		"usage": {"tokens": 7}
	}`)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %s, wanted %s", JS(got), JS(want))
	}
}

type upstreamResponse struct {
	APIKey  string `json:"api_key,omitempty"`
	Model   string `json:"model"`
	Created int    `json:"created"`
}

func TestSanitizeForeign(t *testing.T) {
	p, err := ParsePolicy(testPolicyYAML)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSanitizer(p)
	if err != nil {
		t.Fatal(err)
	}

	// A typed response flattens to plain maps on the way in.
	got, err := s.Sanitize(upstreamResponse{
		APIKey:  "sk-deadbeef",
		Model:   "gpt",
		Created: 1677652288,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Dwimjs(`{"model":"gpt"}`)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %s, wanted %s", JS(got), JS(want))
	}
}
