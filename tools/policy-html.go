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

// Package tools renders sanitation policies as human-readable
// documentation.
package tools

import (
	"fmt"
	"html"
	"io"

	"github.com/Comcast/optics/sanitize"

	md "github.com/russross/blackfriday/v2"
)

// RenderPolicyHTML writes an HTML fragment documenting the policy:
// its Markdown doc rendered, then a table of rules.
func RenderPolicyHTML(p *sanitize.Policy, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="policy" id="%s">`, html.EscapeString(p.Name))
	f(`<h1 class="policyName">%s</h1>`, html.EscapeString(p.Name))

	if p.Doc != "" {
		f(`<div class="policyDoc doc">%s</div>`, md.Run([]byte(p.Doc)))
	}

	f(`<table class="rules">`)
	f(`<tr><th>attribute</th><th>expected value</th></tr>`)
	for _, rule := range p.Rules {
		f(`<tr class="rule"><td><code>%s</code></td><td><code>%s</code></td></tr>`,
			html.EscapeString(rule.Attr),
			html.EscapeString(rule.Expect))
	}
	f(`</table>`)
	f(`</div>`)

	return nil
}

// RenderPolicyPageHTML wraps RenderPolicyHTML in a complete page.
func RenderPolicyPageHTML(p *sanitize.Policy, out io.Writer) error {
	fmt.Fprintf(out, `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>policy %s</title></head>
<body>
`, html.EscapeString(p.Name))
	if err := RenderPolicyHTML(p, out); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "</body>\n</html>\n")
	return err
}
