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

// Package sanitize strips sensitive attributes from nested data
// before it leaves your hands.
//
// A Policy is a list of rules: an attribute name and a regular
// expression the attribute's value must match.  Applying a policy to
// a map asserts each present attribute looks the way the rule
// expects, then removes it.  The assertion is the point: if a secret
// drifts outside its expected shape, you want a loud Violation, not a
// silent pass-through.
//
// A Sanitizer applies a Policy to every map anywhere inside a value,
// using the optics engine to find them and to rebuild everything
// around them.
package sanitize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Comcast/optics/optic"
	"github.com/Comcast/optics/util"
)

// Rule says what one sensitive attribute's value should look like.
type Rule struct {
	// Attr is the map key to strip.
	Attr string `json:"attr" yaml:"attr"`

	// Expect is the pattern the value must match (anywhere in the
	// value's string rendering).
	Expect string `json:"expect" yaml:"expect"`

	re *regexp.Regexp
}

// Policy is an ordered set of Rules plus some documentation.
type Policy struct {
	Name string `json:"name" yaml:"name"`

	// Doc is Markdown.  See tools.RenderPolicyHTML.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	Rules []Rule `json:"rules" yaml:"rules"`
}

// Compile checks and compiles every rule's pattern.  Call it once
// before Apply.
func (p *Policy) Compile() error {
	for i := range p.Rules {
		re, err := regexp.Compile(p.Rules[i].Expect)
		if err != nil {
			return fmt.Errorf("rule %q: %v", p.Rules[i].Attr, err)
		}
		p.Rules[i].re = re
	}
	return nil
}

// Violation occurs when an attribute covered by a rule has a value
// that doesn't match the rule's pattern.  It signals a
// misconfiguration, not bad input: either the policy is stale or the
// data isn't what you thought it was.
type Violation struct {
	Policy string
	Attr   string
	Value  interface{}
}

func (e *Violation) Error() string {
	return fmt.Sprintf(`policy %q: attribute %q has unexpected value %#v`, e.Policy, e.Attr, e.Value)
}

// Apply strips the policy's attributes from a copy of m.  An
// attribute that is present but doesn't match its rule is a
// Violation.  Missing attributes are fine.
func (p *Policy) Apply(m map[string]interface{}) (map[string]interface{}, error) {
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		acc[k] = v
	}
	for _, rule := range p.Rules {
		v, have := acc[rule.Attr]
		if !have {
			continue
		}
		re := rule.re
		if re == nil {
			return nil, fmt.Errorf("policy %q not compiled", p.Name)
		}
		if !re.MatchString(valueString(v)) {
			return nil, &Violation{Policy: p.Name, Attr: rule.Attr, Value: v}
		}
		util.Logf("sanitize: policy %s stripping %s", p.Name, rule.Attr)
		delete(acc, rule.Attr)
	}
	return acc, nil
}

// valueString renders a value the way a rule's pattern expects to see
// it.  Floats that are really integers (the usual JSON situation)
// print without the exponent.
func valueString(x interface{}) string {
	switch vv := x.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", vv)
	}
}

// Flatten converts a foreign object model into plain nested maps,
// slices, and scalars via a JSON round trip.  That's all the optics
// engine ever sees.
func Flatten(x interface{}) (interface{}, error) {
	js, err := json.Marshal(&x)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(js, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Sanitizer applies a Policy at every map inside a state.
type Sanitizer struct {
	Policy *Policy

	maps optic.Optic
}

// NewSanitizer compiles the policy.
func NewSanitizer(p *Policy) (*Sanitizer, error) {
	if err := p.Compile(); err != nil {
		return nil, err
	}
	return &Sanitizer{
		Policy: p,
		maps:   optic.Recur[map[string]interface{}](),
	}, nil
}

// Sanitize flattens x and strips the policy's attributes from every
// map anywhere inside it.
func (s *Sanitizer) Sanitize(x interface{}) (interface{}, error) {
	state, err := Flatten(x)
	if err != nil {
		return nil, err
	}
	return s.deep(state)
}

// deep rewrites every map found by recursion.  Since recursion stops
// at the first map on each path, the transform descends into the
// stripped map's remaining values itself.
func (s *Sanitizer) deep(state interface{}) (interface{}, error) {
	return optic.Over(s.maps, state, func(focus interface{}) (interface{}, error) {
		clean, err := s.Policy.Apply(focus.(map[string]interface{}))
		if err != nil {
			return nil, err
		}
		for k, v := range clean {
			sub, err := s.deep(v)
			if err != nil {
				return nil, err
			}
			clean[k] = sub
		}
		return clean, nil
	})
}
