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

// Package main is an MQTT relay that sanitizes JSON payloads: it
// subscribes to a topic, strips attributes per a policy, and
// republishes the cleaned message on another topic.
//
//	sanmq -h tcp://localhost -p 1883 -t raw/# -o clean -policy policy.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Comcast/optics/sanitize"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	var (
		// Follow mosquitto_sub command line args.

		broker    = flag.String("h", "tcp://localhost", "Broker hostname")
		clientId  = flag.String("i", "sanmq", "Client id")
		port      = flag.Int("p", 1883, "Broker port")
		keepAlive = flag.Int("k", 10, "Keep-alive in seconds")
		userName  = flag.String("u", "", "Username")
		password  = flag.String("P", "", "Password")
		reconnect = flag.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean     = flag.Bool("c", true, "Clean session")
		quiesce   = flag.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		subTopic = flag.String("t", "", "subscription topic")
		outTopic = flag.String("o", "clean", "topic for sanitized messages")
		qos      = flag.Int("qos", 0, "QoS for subscription and publication")

		policyFilename = flag.String("policy", "", "policy YAML filename")
		dbFilename     = flag.String("db", "", "optional snapshot store filename")
	)

	flag.Parse()

	if *subTopic == "" {
		log.Fatal("need a subscription topic (-t)")
	}
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

	var store *sanitize.SnapshotStore
	if *dbFilename != "" {
		store = sanitize.NewSnapshotStore(*dbFilename)
		if err := store.Open(); err != nil {
			log.Fatal(err)
		}
		defer store.Close()
	}

	r := &Relay{
		Sanitizer: sanitizer,
		Store:     store,
		OutTopic:  *outTopic,
		QoS:       byte(*qos),
	}

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s:%d", *broker, *port))
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))
	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		log.Fatal(t.Error())
	}

	if t := client.Subscribe(*subTopic, byte(*qos), r.inHandler); t.Wait() && t.Error() != nil {
		log.Fatal(t.Error())
	}

	log.Printf("sanmq relaying %s to %s with policy %s", *subTopic, *outTopic, policy.Name)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	client.Disconnect(uint(*quiesce))
}

// Relay sanitizes in-bound payloads and republishes them.
type Relay struct {
	Sanitizer *sanitize.Sanitizer
	Store     *sanitize.SnapshotStore
	OutTopic  string
	QoS       byte

	count int
}

// inHandler is a Paho publish handler, which handles messages the
// broker sends us due to our subscription.
func (r *Relay) inHandler(client mqtt.Client, msg mqtt.Message) {
	var x interface{}
	if err := json.Unmarshal(msg.Payload(), &x); err != nil {
		log.Printf("sanmq ignoring unparsable message on %s: %v", msg.Topic(), err)
		return
	}

	clean, err := r.Sanitizer.Sanitize(x)
	if err != nil {
		// A Violation means the policy no longer fits the
		// data.  Don't forward anything.
		log.Printf("sanmq refusing message on %s: %v", msg.Topic(), err)
		return
	}

	js, err := json.Marshal(&clean)
	if err != nil {
		log.Printf("sanmq marshal error: %v", err)
		return
	}

	if t := client.Publish(r.OutTopic, r.QoS, false, js); t.Wait() && t.Error() != nil {
		log.Printf("sanmq publish error: %v", t.Error())
		return
	}

	r.snapshot(msg.Topic(), clean)
}

// snapshot stores a sanitized state, when there's a store.
func (r *Relay) snapshot(topic string, state interface{}) {
	if r.Store == nil {
		return
	}
	r.count++
	id := fmt.Sprintf("%s-%d", topic, r.count)
	if err := r.Store.Put(context.Background(), r.Sanitizer.Policy.Name, id, state); err != nil {
		log.Printf("sanmq store error: %v", err)
	}
}
