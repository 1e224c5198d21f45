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
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	virtualPinCount = 64
)

type virtualBridge struct {
	mutex    sync.Mutex
	outputs  map[int]bool
	greenLed bool
	redLed   bool
}

// NewVirtualBridge implements the bridge for a virtual light worker.
// Pins are kept in memory.
func NewVirtualBridge() (API, error) {
	return &virtualBridge{
		outputs: make(map[int]bool),
	}, nil
}

// Returns number of local pins
func (p *virtualBridge) PinCount() int {
	return virtualPinCount
}

// ConfigureOutput puts the pin with given number in digital output mode.
func (p *virtualBridge) ConfigureOutput(pinNumber int) error {
	if pinNumber < 0 || pinNumber >= virtualPinCount {
		configureErrorsTotal.Inc()
		return errors.Wrapf(InvalidPinError, "pin %d is out of range [0..%d]", pinNumber, virtualPinCount-1)
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, found := p.outputs[pinNumber]; !found {
		p.outputs[pinNumber] = false
	}
	return nil
}

// Write sets the output pin with given number high (true) or low (false).
func (p *virtualBridge) Write(pinNumber int, value bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, found := p.outputs[pinNumber]; !found {
		writeErrorsTotal.Inc()
		return errors.Wrapf(InvalidDirectionError, "pin %d is not configured as output", pinNumber)
	}
	p.outputs[pinNumber] = value
	return nil
}

// Read returns the logic level of the output pin with given number.
func (p *virtualBridge) Read(pinNumber int) (bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	value, found := p.outputs[pinNumber]
	if !found {
		return false, errors.Wrapf(InvalidDirectionError, "pin %d is not configured as output", pinNumber)
	}
	return value, nil
}

// Turn Green status led on/off
func (p *virtualBridge) SetGreenLED(on bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.greenLed = on
	return nil
}

// Turn Red status led on/off
func (p *virtualBridge) SetRedLED(on bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.redLed = on
	return nil
}

// Blink Green status led with given duration between on/off
func (p *virtualBridge) BlinkGreenLED(delay time.Duration) error {
	return nil
}

// Blink Red status led with given duration between on/off
func (p *virtualBridge) BlinkRedLED(delay time.Duration) error {
	return nil
}

// Close turns all outputs low.
func (p *virtualBridge) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for nr := range p.outputs {
		p.outputs[nr] = false
	}
	p.greenLed = false
	p.redLed = false
	return nil
}
