//    Copyright 2026 Ewout Prangsma
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

//go:build linux

package environment

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestBridgeTypeForMachine(t *testing.T) {
	tests := map[string]string{
		"armv7l":  BridgeRaspberryPi,
		"armv6l":  BridgeRaspberryPi,
		"aarch64": BridgeRaspberryPi,
		"x86_64":  BridgeVirtual,
		"":        BridgeVirtual,
	}
	for machine, expected := range tests {
		if result := bridgeTypeForMachine(machine); result != expected {
			t.Errorf("bridgeTypeForMachine(%q): expected %s, got %s", machine, expected, result)
		}
	}
}

func TestAutoDetectBridgeType(t *testing.T) {
	switch result := AutoDetectBridgeType(zerolog.Nop()); result {
	case BridgeRaspberryPi, BridgeVirtual:
	default:
		t.Errorf("Unexpected bridge type %s", result)
	}
}
