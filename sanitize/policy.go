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
	"fmt"
	"io/ioutil"

	"github.com/jsccast/yaml"
)

// ParsePolicy reads a Policy from YAML and compiles it.
//
//	name: openai
//	doc: |
//	  Strips upstream account attributes.
//	rules:
//	  - attr: api_key
//	    expect: sk-\w{48}
//	  - attr: organization
//	    expect: user-\w{24}
func ParsePolicy(bs []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(bs, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("policy has no name")
	}
	if err := p.Compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPolicy reads a Policy from a YAML file.
func LoadPolicy(filename string) (*Policy, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParsePolicy(bs)
}
