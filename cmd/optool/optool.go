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

// Package main is a little command-line utility to run optics against
// JSON (or YAML) data.
//
//	optool -i '[1,2,3]' -path each -js '_.focus+1'
//	optool -i '{"likes":["tacos","chips"]}' -path field:likes,each
//	optool -i '{"a":{"b":"x1y22"}}' -path 'recur:string,regex:\d+' -js 'String(parseInt(_.focus)+1)'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/Comcast/optics/optic"

	"github.com/jsccast/yaml"
)

func main() {
	var (
		inputJS   = flag.String("i", "", "input in JSON")
		inputFile = flag.String("f", "", "filename for input (instead of -i)")
		inputYAML = flag.Bool("yaml", false, "parse input as YAML instead of JSON")
		pathSpec  = flag.String("path", "", "comma-separated optic steps: each, items, field:NAME, recur:KIND, regex:PATTERN")
		jsSrc     = flag.String("js", "", "Javascript transform; the focus is _.focus")
		setJS     = flag.String("set", "", "constant replacement in JSON (instead of -js)")

		verbose = flag.Bool("v", false, "verbosity")
	)

	flag.Parse()

	if err := run(*inputJS, *inputFile, *inputYAML, *pathSpec, *jsSrc, *setJS, *verbose); err != nil {
		log.Fatal(err)
	}
}

func run(inputJS, inputFile string, inputYAML bool, pathSpec, jsSrc, setJS string, verbose bool) error {
	var bs []byte
	switch {
	case inputJS != "":
		bs = []byte(inputJS)
	case inputFile != "":
		var err error
		if bs, err = ioutil.ReadFile(inputFile); err != nil {
			return err
		}
	default:
		return fmt.Errorf("need input: either -i or -f")
	}

	var state interface{}
	if inputYAML {
		if err := yaml.Unmarshal(bs, &state); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(bs, &state); err != nil {
			return err
		}
	}

	o, err := parsePath(pathSpec)
	if err != nil {
		return err
	}

	var result interface{}
	switch {
	case jsSrc != "":
		transformer, err := NewTransformer(jsSrc, verbose)
		if err != nil {
			return err
		}
		if result, err = optic.Over(o, state, transformer.Transform); err != nil {
			return err
		}
	case setJS != "":
		var value interface{}
		if err := json.Unmarshal([]byte(setJS), &value); err != nil {
			return err
		}
		if result, err = optic.Set(o, state, value); err != nil {
			return err
		}
	default:
		foci, err := optic.ToList(o, state)
		if err != nil {
			return err
		}
		result = foci
	}

	js, err := json.Marshal(&result)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s\n", js)

	return nil
}

// parsePath turns "field:likes,each" into a composed optic.  Steps
// are comma-separated; a regex step runs to the end of the string so
// its pattern can contain commas.
func parsePath(spec string) (optic.Optic, error) {
	if spec == "" {
		return optic.Identity(), nil
	}

	var steps []optic.Optic
	rest := spec
	for rest != "" {
		step := rest
		if i := strings.Index(rest, ","); 0 <= i && !strings.HasPrefix(rest, "regex:") {
			step, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}

		switch {
		case step == "each":
			steps = append(steps, optic.Each())
		case step == "items":
			steps = append(steps, optic.Items())
		case strings.HasPrefix(step, "field:"):
			steps = append(steps, optic.Field(strings.TrimPrefix(step, "field:")))
		case strings.HasPrefix(step, "recur:"):
			o, err := parseRecur(strings.TrimPrefix(step, "recur:"))
			if err != nil {
				return nil, err
			}
			steps = append(steps, o)
		case strings.HasPrefix(step, "regex:"):
			re, err := regexp.Compile(strings.TrimPrefix(step, "regex:"))
			if err != nil {
				return nil, err
			}
			steps = append(steps, optic.Pattern(re))
		default:
			return nil, fmt.Errorf("unknown optic step %q", step)
		}
	}

	return optic.Compose(steps...), nil
}

// parseRecur maps a JSON-ish kind name to a deep-recursion optic.
// JSON numbers arrive as float64s, so "number" means float64.
func parseRecur(kind string) (optic.Optic, error) {
	switch kind {
	case "string":
		return optic.Recur[string](), nil
	case "number":
		return optic.Recur[float64](), nil
	case "bool":
		return optic.Recur[bool](), nil
	case "map", "object":
		return optic.Recur[map[string]interface{}](), nil
	case "list", "array":
		return optic.Recur[[]interface{}](), nil
	}
	return nil, fmt.Errorf("unknown recur kind %q", kind)
}
