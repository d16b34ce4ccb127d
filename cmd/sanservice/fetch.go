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
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// Jar is a cookie jar that also remembers the cookies it has seen.
// The service carries one Jar across upstream fetches, so a session
// cookie from one fetch rides along on the next.
type Jar struct {
	*cookiejar.Jar
	Kookies []*http.Cookie `json:"cookies"`
}

func NewJar() (*Jar, error) {
	cookieJar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Jar{Jar: cookieJar}, nil
}

func (j *Jar) AddCookies(cs []*http.Cookie) {
	if j.Kookies == nil {
		j.Kookies = make([]*http.Cookie, 0, 2*len(cs))
	}
	j.Kookies = append(j.Kookies, cs...)
}

// HTTPRequest describes an upstream fetch.  The service makes the
// request and sanitizes the response body before anyone else sees it.
type HTTPRequest struct {
	Method  string      `json:"method,omitempty"`
	URL     string      `json:"url"`
	Body    string      `json:"body,omitempty"`
	Headers http.Header `json:"headers,omitempty"`

	Debug bool `json:"debug,omitempty"`

	// TestResponseBody, if not empty, is used instead of
	// attempting a real HTTP request.
	TestResponseBody string `json:"-"`
}

// Fetch makes the upstream request and returns the sanitized response
// body.
//
// http.Request doesn't itself support cookie jars; http.Client does,
// but an http.Client also caches TCP connections, so we don't want
// one per request.  So we work the jar manually.
func (s *Service) Fetch(ctx context.Context, r *HTTPRequest) (interface{}, error) {
	body, err := s.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.sanitize(ctx, body)
}

func (s *Service) fetch(ctx context.Context, r *HTTPRequest) ([]byte, error) {
	if r.TestResponseBody != "" {
		return []byte(r.TestResponseBody), nil
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}

	req := &http.Request{
		Method: r.Method,
		URL:    u,
		Header: r.Headers,
	}
	if req.Method == "" {
		req.Method = "GET"
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	if r.Body != "" {
		req.Body = ioutil.NopCloser(bytes.NewReader([]byte(r.Body)))
	}

	if s.Jar != nil {
		for i, cookie := range s.Jar.Cookies(u) {
			s.logf("Service.fetch adding cookie %d: %#v", i, cookie)
			req.AddCookie(cookie)
		}
	}

	req = req.WithContext(ctx)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bs, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if s.Jar != nil {
		s.Jar.SetCookies(u, resp.Cookies())
		s.Jar.AddCookies(resp.Cookies())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream %s: %s", r.URL, resp.Status)
	}

	return bs, nil
}
