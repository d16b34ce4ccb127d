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

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/dop251/goja"
	"github.com/gorhill/cronexpr"
)

// Transformer runs a compiled Javascript program once per focus.  The
// focus is available as _.focus, and the program's value is the
// replacement.
type Transformer struct {
	vm      *goja.Runtime
	program *goja.Program
	env     map[string]interface{}
}

func NewTransformer(src string, verbose bool) (*Transformer, error) {
	program, err := goja.Compile("transform", src, true)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	env := make(map[string]interface{})
	vm.Set("_", env)

	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		bs, err := json.Marshal(&x)
		if err != nil {
			return err
		}
		log.Printf("%s\n", bs)

		return x
	}

	env["esc"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		s, is := x.(string)
		if !is {
			panic(vm.NewGoError(fmt.Errorf("not a string")))
		}
		return url.QueryEscape(s)
	}

	// cronNext gives the next time matching a cron expression,
	// using github.com/gorhill/cronexpr.  Handy for writing
	// schedule-ish values into data.
	env["cronNext"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		cronExpr, is := x.(string)
		if !is {
			panic(vm.NewGoError(fmt.Errorf("not a string")))
		}
		c, err := cronexpr.Parse(cronExpr)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return c.Next(time.Now()).UTC().Format(time.RFC3339Nano)
	}

	if verbose {
		env["verbose"] = true
	}

	return &Transformer{
		vm:      vm,
		program: program,
		env:     env,
	}, nil
}

// Transform is an optic.Transform.
func (t *Transformer) Transform(focus interface{}) (interface{}, error) {
	t.env["focus"] = focus
	v, err := t.vm.RunProgram(t.program)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}
