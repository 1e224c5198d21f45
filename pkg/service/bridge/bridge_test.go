// Copyright 2026 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package bridge

import (
	"testing"
)

func TestVirtualBridgeOutputs(t *testing.T) {
	br, err := NewVirtualBridge()
	if err != nil {
		t.Fatalf("NewVirtualBridge failed: %v", err)
	}
	if err := br.Write(3, true); !IsInvalidDirection(err) {
		t.Errorf("Expected InvalidDirectionError, got %v", err)
	}
	if _, err := br.Read(3); !IsInvalidDirection(err) {
		t.Errorf("Expected InvalidDirectionError, got %v", err)
	}
	if err := br.ConfigureOutput(3); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}
	if value, err := br.Read(3); err != nil || value {
		t.Errorf("Expected low, got %v (err=%v)", value, err)
	}
	if err := br.Write(3, true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	// Configuring again must not reset the level
	if err := br.ConfigureOutput(3); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}
	if value, err := br.Read(3); err != nil || !value {
		t.Errorf("Expected high, got %v (err=%v)", value, err)
	}
	if err := br.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if value, _ := br.Read(3); value {
		t.Error("Expected low after Close")
	}
}

func TestVirtualBridgePinRange(t *testing.T) {
	br, _ := NewVirtualBridge()
	for _, pin := range []int{-1, br.PinCount()} {
		if err := br.ConfigureOutput(pin); !IsInvalidPin(err) {
			t.Errorf("ConfigureOutput(%d): expected InvalidPinError, got %v", pin, err)
		}
	}
}

func TestValidatePin(t *testing.T) {
	tests := []struct {
		pin   int
		valid bool
	}{
		{0, true},
		{17, true},
		{27, true},
		{28, false},
		{-1, false},
		{greenLedPin, false},
		{redLedPin, false},
	}
	for _, tt := range tests {
		err := validatePin(tt.pin, rpiPinCount)
		if tt.valid && err != nil {
			t.Errorf("Pin %d: expected valid, got %v", tt.pin, err)
		} else if !tt.valid && !IsInvalidPin(err) {
			t.Errorf("Pin %d: expected InvalidPinError, got %v", tt.pin, err)
		}
	}
}
