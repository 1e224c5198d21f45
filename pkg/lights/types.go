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

package lights

import (
	"fmt"
)

// LightID identifies a logical light.
type LightID int

// PinNumber identifies a physical digital I/O pin.
type PinNumber int

// PinAssignment maps a single light to a pin.
type PinAssignment struct {
	ID  LightID
	Pin PinNumber
}

// Command requests a light to be switched on or off.
type Command struct {
	ID LightID
	On bool
}

// LifecycleState of the pins of a registry.
type LifecycleState uint8

const (
	// Unconfigured means that at least one mapped pin has not been
	// configured as output yet.
	Unconfigured LifecycleState = iota
	// Configured means that all mapped pins are configured as output.
	Configured
)

func (s LifecycleState) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// DigitalIO is the pin access provided by the host platform.
type DigitalIO interface {
	// ConfigureOutput puts the given pin in digital output mode.
	ConfigureOutput(pin int) error
	// Write sets the given pin high (true) or low (false).
	Write(pin int, value bool) error
	// Read returns the current logic level of the given pin.
	Read(pin int) (bool, error)
}
