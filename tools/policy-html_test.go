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

package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/optics/sanitize"
)

func TestRenderPolicyHTML(t *testing.T) {
	p, err := sanitize.ParsePolicy([]byte(`
name: upstream
doc: |
  Strips *secret* attributes.
rules:
  - attr: api_key
    expect: sk-\w{8}
`))
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := RenderPolicyHTML(p, buf); err != nil {
		t.Fatal(err)
	}
	rendered := buf.String()

	for _, want := range []string{
		`class="policyName"`,
		`<em>secret</em>`,
		`api_key`,
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered policy lacks %q:\n%s", want, rendered)
		}
	}
}

func TestRenderPolicyPageHTML(t *testing.T) {
	p, err := sanitize.ParsePolicy([]byte("name: p\nrules: []\n"))
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := RenderPolicyPageHTML(p, buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>") {
		t.Fatalf("got %q", buf.String())
	}
}
