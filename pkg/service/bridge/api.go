// Copyright 2017-2026 Ewout Prangsma
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
	"time"
)

// API of the bridge, the hardware that gives the light worker access
// to the local GPIO pins of the board.
type API interface {
	// Turn Green status led on/off
	SetGreenLED(on bool) error
	// Turn Red status led on/off
	SetRedLED(on bool) error
	// Blink Green status led with given duration between on/off
	BlinkGreenLED(delay time.Duration) error
	// Blink Red status led with given duration between on/off
	BlinkRedLED(delay time.Duration) error

	// Access to local GPIO

	// Returns number of local pins
	PinCount() int
	// ConfigureOutput puts the pin with given number in digital output mode.
	// The initial value of the pin is low.
	ConfigureOutput(pinNumber int) error
	// Write sets the output pin with given number high (true) or low (false).
	Write(pinNumber int, value bool) error
	// Read returns the logic level of the output pin with given number.
	Read(pinNumber int) (bool, error)

	Close() error
}
