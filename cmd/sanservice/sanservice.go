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

// Package main is a little HTTP service that sanitizes JSON per a
// policy.
//
// POST a JSON document to /api/sanitize to get the sanitized version
// back.  Connect a websocket to /api/ws to do the same over a
// long-lived connection.  GET /policy for a human-readable rendering
// of the policy.  POST {"url":...} to /api/fetch to have the service
// fetch a document from an upstream and sanitize it before you ever
// see it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Comcast/optics/sanitize"
	"github.com/Comcast/optics/tools"

	"github.com/gorilla/websocket"
)

func main() {
	var (
		port           = flag.String("port", ":8080", "port for HTTP service")
		policyFilename = flag.String("policy", "", "policy YAML filename")
		dbFilename     = flag.String("db", "", "optional snapshot store filename")
		debug          = flag.Bool("v", false, "verbosity")
	)

	flag.Parse()

	if *policyFilename == "" {
		log.Fatal("need a policy (-policy)")
	}

	policy, err := sanitize.LoadPolicy(*policyFilename)
	if err != nil {
		log.Fatal(err)
	}
	sanitizer, err := sanitize.NewSanitizer(policy)
	if err != nil {
		log.Fatal(err)
	}

	jar, err := NewJar()
	if err != nil {
		log.Fatal(err)
	}

	s := &Service{
		Sanitizer: sanitizer,
		Jar:       jar,
		Debug:     *debug,
	}

	if *dbFilename != "" {
		store := sanitize.NewSnapshotStore(*dbFilename)
		store.Debug = *debug
		if err := store.Open(); err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		s.Store = store
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Serve(ctx, *port); err != nil {
		log.Fatal(err)
	}
}

// Service sanitizes documents that arrive over HTTP or a websocket.
type Service struct {
	Sanitizer *sanitize.Sanitizer
	Store     *sanitize.SnapshotStore
	Debug     bool

	// Jar carries cookies across upstream fetches.
	Jar *Jar

	count int64
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf(format, args...)
	}
}

// sanitize does the real work for all of the endpoints: parse,
// sanitize, maybe snapshot.
func (s *Service) sanitize(ctx context.Context, bs []byte) (interface{}, error) {
	var x interface{}
	if err := json.Unmarshal(bs, &x); err != nil {
		return nil, fmt.Errorf("can't parse: %v", err)
	}

	clean, err := s.Sanitizer.Sanitize(x)
	if err != nil {
		return nil, err
	}

	if s.Store != nil {
		if err := s.Store.Put(ctx, s.Sanitizer.Policy.Name, s.nextSnapshotId(), clean); err != nil {
			log.Printf("Service.sanitize store error %v", err)
		}
	}

	return clean, nil
}

// nextSnapshotId makes an id unique within this process.  Handlers
// run concurrently, so the counter is atomic.
func (s *Service) nextSnapshotId() string {
	n := atomic.AddInt64(&s.count, 1)
	return fmt.Sprintf("%s-%d-%d", s.Sanitizer.Policy.Name, time.Now().UTC().UnixNano(), n)
}

func (s *Service) Serve(ctx context.Context, port string) error {

	http.HandleFunc("/api/sanitize", func(w http.ResponseWriter, r *http.Request) {
		bs, err := ioutil.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		clean, err := s.sanitize(r.Context(), bs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		js, err := json.Marshal(&clean)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "%s\n", js)
	})

	http.HandleFunc("/api/fetch", func(w http.ResponseWriter, r *http.Request) {
		bs, err := ioutil.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req HTTPRequest
		if err := json.Unmarshal(bs, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Debug = s.Debug
		clean, err := s.Fetch(r.Context(), &req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		js, err := json.Marshal(&clean)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "%s\n", js)
	})

	http.HandleFunc("/policy", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tools.RenderPolicyPageHTML(s.Sanitizer.Policy, w); err != nil {
			log.Printf("Service /policy render error %v", err)
		}
	})

	if err := s.WebSocketService(ctx); err != nil {
		return err
	}

	log.Printf("sanservice listening on %s with policy %s", port, s.Sanitizer.Policy.Name)

	return http.ListenAndServe(port, nil)
}

// WebSocketService registers /api/ws, which sanitizes each text
// message that arrives and writes the result back.
func (s *Service) WebSocketService(ctx context.Context) error {

	var upgrader = websocket.Upgrader{} // use default options

	api := func(w http.ResponseWriter, r *http.Request) {
		s.logf("Service.WebSocketService connection")

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				s.logf("Service.WebSocketService read error %v", err)
				break
			}

			clean, err := s.sanitize(ctx, message)
			if err != nil {
				msg := fmt.Sprintf(`{"error":%q}`, err.Error())
				if err = c.WriteMessage(mt, []byte(msg)); err != nil {
					log.Println("write (err)", err)
				}
				continue
			}

			js, err := json.Marshal(&clean)
			if err != nil {
				log.Printf("Service.WebSocketService Marshal error %v on %#v", err, clean)
				continue
			}
			if err = c.WriteMessage(mt, js); err != nil {
				log.Println("Service.WebSocketService write:", err)
				break
			}
		}
	}

	http.HandleFunc("/api/ws", api)

	return nil
}
