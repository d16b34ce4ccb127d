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
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/Comcast/optics/sanitize"
)

func testService(t *testing.T) *Service {
	p, err := sanitize.ParsePolicy([]byte(`
name: upstream
rules:
  - attr: api_key
    expect: sk-\w{8}
`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := sanitize.NewSanitizer(p)
	if err != nil {
		t.Fatal(err)
	}
	return &Service{
		Sanitizer: s,
	}
}

func TestFetchSanitizes(t *testing.T) {
	s := testService(t)

	r := &HTTPRequest{
		URL:              "http://example.com/answer",
		TestResponseBody: `{"api_key":"sk-deadbeef","text":"tacos"}`,
	}

	clean, err := s.Fetch(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}

	m, is := clean.(map[string]interface{})
	if !is {
		t.Fatalf("got %T", clean)
	}
	if _, have := m["api_key"]; have {
		t.Fatal("api_key survived")
	}
	if m["text"] != "tacos" {
		t.Fatalf("got %#v", m["text"])
	}
}

func TestFetchViolation(t *testing.T) {
	s := testService(t)

	r := &HTTPRequest{
		URL:              "http://example.com/answer",
		TestResponseBody: `{"api_key":"not-a-key"}`,
	}

	if _, err := s.Fetch(context.Background(), r); err == nil {
		t.Fatal("expected a violation")
	}
}

func TestSanitizeBadJSON(t *testing.T) {
	s := testService(t)
	if _, err := s.sanitize(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestFetchCookieJar(t *testing.T) {
	s := testService(t)

	jar, err := NewJar()
	if err != nil {
		t.Fatal(err)
	}
	s.Jar = jar

	var sessionSent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			sessionSent = c.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "flavor", Value: "carnitas"})
		fmt.Fprintf(w, `{"text":"tacos"}`)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc123"}})

	if _, err := s.Fetch(context.Background(), &HTTPRequest{URL: server.URL}); err != nil {
		t.Fatal(err)
	}

	// The jar's cookie rode along on the upstream request.
	if sessionSent != "abc123" {
		t.Fatalf("upstream saw session %q", sessionSent)
	}

	// The response's cookie landed back in the jar.
	flavored := false
	for _, c := range jar.Cookies(u) {
		if c.Name == "flavor" && c.Value == "carnitas" {
			flavored = true
		}
	}
	if !flavored {
		t.Fatalf("response cookie never made it into the jar: %#v", jar.Cookies(u))
	}
	if len(jar.Kookies) == 0 {
		t.Fatal("jar forgot the cookies it has seen")
	}
}

func TestSnapshotIdsUnique(t *testing.T) {
	s := testService(t)

	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.nextSnapshotId()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate snapshot id %s", id)
		}
		seen[id] = true
	}
}
