//    Copyright 2017-2026 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/binkynet/LightWorker/pkg/lights"
	"github.com/binkynet/LightWorker/pkg/service/bridge"
	"github.com/binkynet/LightWorker/pkg/transport"
)

func newTestService(t *testing.T, conf Config, input string, output io.Writer) (Service, bridge.API) {
	t.Helper()
	br, err := bridge.NewVirtualBridge()
	if err != nil {
		t.Fatalf("NewVirtualBridge failed: %v", err)
	}
	svc, err := NewService(conf, Dependencies{
		Logger: zerolog.Nop(),
		Bridge: br,
		OpenTransport: func() (io.ReadWriteCloser, error) {
			return transport.NewStdio(strings.NewReader(input), output), nil
		},
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, br
}

// metricValue returns the sum of all counters or gauges with given name
// whose labels include the given name/value pairs.
func metricValue(t *testing.T, name string, labelPairs ...string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	nextMetric:
		for _, m := range mf.GetMetric() {
			for i := 0; i+1 < len(labelPairs); i += 2 {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == labelPairs[i] && lp.GetValue() == labelPairs[i+1] {
						found = true
					}
				}
				if !found {
					continue nextMetric
				}
			}
			total += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return total
}

func TestNewServiceConfiguresLights(t *testing.T) {
	svc, br := newTestService(t, Config{
		Lights: []lights.PinAssignment{{ID: 1, Pin: 5}, {ID: 2, Pin: 6}},
	}, "", io.Discard)
	if reply := svc.Execute("on 2"); reply != "ok" {
		t.Fatalf("Unexpected reply %q", reply)
	}
	if value, err := br.Read(6); err != nil || !value {
		t.Errorf("Expected pin 6 high, got %v (err=%v)", value, err)
	}
	if reply := svc.Execute("status 2"); reply != "ok 1" {
		t.Errorf("Unexpected reply %q", reply)
	}
	if reply := svc.Execute("status 1"); reply != "ok 0" {
		t.Errorf("Unexpected reply %q", reply)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(Config{}, Dependencies{Logger: zerolog.Nop()}); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgumentError, got %v", err)
	}
}

func TestExecute(t *testing.T) {
	svc, br := newTestService(t, Config{}, "", io.Discard)
	tests := []struct {
		line  string
		reply string
	}{
		{"", ""},
		{"# comment", ""},
		{"map [[1,5],[2,6]]", "ok"},
		{"map 3 7", "ok"},
		{"list", "ok [[1,5],[2,6],[3,7]]"},
		{"on 1", "error pin 5 of light 1: pin not configured"},
		{"info", ""},
		{"configure", "ok configured"},
		{"ON 1", "ok"},
		{"off 1", "ok"},
		{"control 2 1", "ok"},
		{"control [3,1]", "ok"},
		{"mix [[1,1],[2,0]]", "ok"},
		{"mix [[1,0],[99,1]]", "error light 99: light not found"},
		{"status 1", "ok 0"},
		{"status 99", "error light 99: light not found"},
		{"remove 3", "ok"},
		{"remove 3", "error light 3: light not found"},
		{"map [1,5]", ""},
		{"control 1 2", "error status must be 0 or 1, got 2: invalid argument"},
		{"on x", "error 'x' is not an integer: invalid argument"},
		{"on", "error expected 1 arguments, got 0: invalid argument"},
		{"blink 1", "error 'blink': unknown command"},
		{"remove-all", "ok"},
		{"list", "ok []"},
	}
	for _, tt := range tests {
		reply := svc.Execute(tt.line)
		switch tt.line {
		case "info":
			if !strings.HasPrefix(reply, "ok version= lights=3 state=unconfigured started=") {
				t.Errorf("Execute(%q): unexpected reply %q", tt.line, reply)
			}
		case "map [1,5]":
			if !strings.HasPrefix(reply, "error ") || !strings.Contains(reply, "decode failed") {
				t.Errorf("Execute(%q): unexpected reply %q", tt.line, reply)
			}
		default:
			if reply != tt.reply {
				t.Errorf("Execute(%q): expected %q, got %q", tt.line, tt.reply, reply)
			}
		}
	}
	// Pins keep their last level after the mappings are removed
	if value, _ := br.Read(7); !value {
		t.Error("Expected pin 7 high")
	}
	if value, _ := br.Read(6); value {
		t.Error("Expected pin 6 low")
	}
}

func TestLightActualReceiver(t *testing.T) {
	svc, _ := newTestService(t, Config{
		Lights: []lights.PinAssignment{{ID: 1, Pin: 5}},
	}, "", io.Discard)
	actuals := make(chan LightActual, 4)
	cancel := svc.RegisterLightActualReceiver(func(a LightActual) {
		actuals <- a
	})
	defer cancel()
	if reply := svc.Execute("on 1"); reply != "ok" {
		t.Fatalf("Unexpected reply %q", reply)
	}
	select {
	case a := <-actuals:
		if a != (LightActual{ID: 1, On: true}) {
			t.Errorf("Unexpected actual %+v", a)
		}
	case <-time.After(time.Second * 5):
		t.Fatal("Timeout waiting for light actual")
	}
}

func TestRunStopsOnEOF(t *testing.T) {
	var output bytes.Buffer
	input := "map 1 5\n\nconfigure\non 1\nstatus 1\nmix [[1,0]]\n"
	svc, _ := newTestService(t, Config{StopOnEOF: true}, input, &output)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run did not stop at end of input")
	}
	expected := "ok\nok configured\nok\nok 1\nok\n"
	if output.String() != expected {
		t.Errorf("Expected %q, got %q", expected, output.String())
	}
}

func TestDecodeErrorsAreCounted(t *testing.T) {
	svc, _ := newTestService(t, Config{
		Lights: []lights.PinAssignment{{ID: 1, Pin: 5}, {ID: 2, Pin: 6}},
	}, "", io.Discard)
	const name = "binky_lightworker_lights_decode_errors_total"
	tests := []struct {
		line      string
		operation string
	}{
		{"mix [[1,1],[2,0]", "mix"},
		{"control [1,7]", "control"},
		{"map [1,5]", "map"},
	}
	for _, tt := range tests {
		before := metricValue(t, name, "operation", tt.operation)
		if reply := svc.Execute(tt.line); !strings.Contains(reply, "decode failed") {
			t.Errorf("Execute(%q): expected decode error, got %q", tt.line, reply)
		}
		if delta := metricValue(t, name, "operation", tt.operation) - before; delta != 1 {
			t.Errorf("Execute(%q): expected 1 decode error to be counted, got %v", tt.line, delta)
		}
	}
}

func TestMixCountsEachMissOnce(t *testing.T) {
	svc, _ := newTestService(t, Config{
		Lights: []lights.PinAssignment{{ID: 1, Pin: 5}},
	}, "", io.Discard)
	const name = "binky_lightworker_lights_lookup_misses_total"
	before := metricValue(t, name)
	if reply := svc.Execute("mix [[1,1],[99,1]]"); reply != "error light 99: light not found" {
		t.Errorf("Unexpected reply %q", reply)
	}
	if delta := metricValue(t, name) - before; delta != 1 {
		t.Errorf("Expected 1 lookup miss, got %v", delta)
	}
}

func TestLightActualGaugeFollowsCommands(t *testing.T) {
	svc, _ := newTestService(t, Config{
		Lights: []lights.PinAssignment{{ID: 17, Pin: 9}},
	}, "", io.Discard)
	const name = "binky_lightworker_service_light_actual"
	for i := 0; i < 20; i++ {
		svc.Execute("on 17")
		if v := metricValue(t, name, "id", "17"); v != 1 {
			t.Fatalf("Expected gauge 1 after on, got %v", v)
		}
		svc.Execute("off 17")
		if v := metricValue(t, name, "id", "17"); v != 0 {
			t.Fatalf("Expected gauge 0 after off, got %v", v)
		}
	}
}

func TestRunStopsOnCancelWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	br, err := bridge.NewVirtualBridge()
	if err != nil {
		t.Fatalf("NewVirtualBridge failed: %v", err)
	}
	svc, err := NewService(Config{
		Lights: []lights.PinAssignment{{ID: 1, Pin: 5}},
	}, Dependencies{
		Logger: zerolog.Nop(),
		Bridge: br,
		OpenTransport: func() (io.ReadWriteCloser, error) {
			return transport.NewStdio(pr, io.Discard), nil
		},
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	if _, err := io.WriteString(pw, "on 1\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	deadline := time.Now().Add(time.Second * 5)
	for {
		if value, _ := br.Read(5); value {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Timeout waiting for pin 5 to go high")
		}
		time.Sleep(time.Millisecond * 10)
	}

	// The reader is now blocked waiting for the next line
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run failed: %v", err)
		}
	case <-time.After(time.Second * 5):
		t.Fatal("Run did not return after cancel")
	}
	if value, _ := br.Read(5); value {
		t.Error("Expected pin 5 low after Run returned")
	}
}
