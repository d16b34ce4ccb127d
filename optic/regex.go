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
	"regexp"
)

// RegexTraversal focuses the non-overlapping matches of a pattern in
// a string state, left to right.  Rebuilding substitutes each match
// with the correspondingly-positioned replacement; unmatched spans
// are untouched.
type RegexTraversal struct {
	re *regexp.Regexp
}

// Pattern focuses the matches of re in a string state.
func Pattern(re *regexp.Regexp) Optic {
	return Derive(RegexTraversal{re: re})
}

// Matches is Pattern with the pattern compiled here.  Panics on a bad
// pattern, like regexp.MustCompile.
func Matches(pattern string) Optic {
	return Pattern(regexp.MustCompile(pattern))
}

func (t RegexTraversal) Folder(state interface{}) ([]interface{}, error) {
	s, is := state.(string)
	if !is {
		return nil, &UsageError{Op: "regex", Reason: "state is not a string"}
	}
	matches := t.re.FindAllString(s, -1)
	foci := make([]interface{}, len(matches))
	for i, m := range matches {
		foci[i] = m
	}
	return foci, nil
}

func (t RegexTraversal) Builder(state interface{}, values []interface{}) (interface{}, error) {
	s, is := state.(string)
	if !is {
		return nil, &UsageError{Op: "regex", Reason: "state is not a string"}
	}
	var (
		i    int
		oops error
	)
	rebuilt := t.re.ReplaceAllStringFunc(s, func(string) string {
		if len(values) <= i {
			oops = &StructuralMismatch{Want: i + 1, Got: len(values)}
			return ""
		}
		replacement, is := values[i].(string)
		if !is {
			oops = &UsageError{Op: "regex", Reason: "replacement is not a string"}
			return ""
		}
		i++
		return replacement
	})
	if oops != nil {
		return nil, oops
	}
	if i != len(values) {
		return nil, &StructuralMismatch{Want: i, Got: len(values)}
	}
	return rebuilt, nil
}
