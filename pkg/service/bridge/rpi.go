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
	"context"
	"sync"
	"time"

	"github.com/ecc1/gpio"
	"github.com/pkg/errors"
)

const (
	greenLedPin = 23
	redLedPin   = 24
	// BCM GPIO 0..27 on the 40-pin header
	rpiPinCount = 28
)

type statusLed struct {
	mutex       sync.Mutex
	pin         gpio.OutputPin
	cancelBlink context.CancelFunc
}

// Turn led on/off, cancel blink
func (l *statusLed) Set(on bool) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.stopBlink()
	if err := l.pin.Write(on); err != nil {
		return errors.Wrap(err, "Write failed")
	}
	return nil
}

// Blink led on/off until Set or Blink is called again.
func (l *statusLed) Blink(delay time.Duration) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.stopBlink()
	ctx, cancel := context.WithCancel(context.Background())
	l.cancelBlink = cancel
	go func() {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		value := true
		for {
			l.mutex.Lock()
			if ctx.Err() == nil {
				l.pin.Write(value)
				value = !value
			}
			l.mutex.Unlock()
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// stopBlink cancels a running blink. Requires the mutex to be held.
func (l *statusLed) stopBlink() {
	if cancel := l.cancelBlink; cancel != nil {
		l.cancelBlink = nil
		cancel()
	}
}

// readablePin is implemented by output pins that can report their level.
type readablePin interface {
	Read() (bool, error)
}

type outputPin struct {
	pin   gpio.OutputPin
	value bool
}

type piBridge struct {
	mutex    sync.Mutex
	greenLed statusLed
	redLed   statusLed
	outputs  map[int]*outputPin
}

// NewRaspberryPiBridge implements the bridge for Raspberry PI's
func NewRaspberryPiBridge() (API, error) {
	activeLow := true
	initialValue := false
	greenLed, err := gpio.Output(greenLedPin, activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrap(err, "Output[greenLed] failed")
	}
	redLed, err := gpio.Output(redLedPin, activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrap(err, "Output[redLed] failed")
	}
	return &piBridge{
		greenLed: statusLed{pin: greenLed},
		redLed:   statusLed{pin: redLed},
		outputs:  make(map[int]*outputPin),
	}, nil
}

// Returns number of local pins
func (p *piBridge) PinCount() int {
	return rpiPinCount
}

// ConfigureOutput puts the pin with given number in digital output mode.
func (p *piBridge) ConfigureOutput(pinNumber int) error {
	if err := validatePin(pinNumber, rpiPinCount); err != nil {
		return err
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, found := p.outputs[pinNumber]; found {
		// Already configured
		return nil
	}
	pin, err := gpio.Output(pinNumber, false, false)
	if err != nil {
		configureErrorsTotal.Inc()
		return errors.Wrapf(err, "Output[%d] failed", pinNumber)
	}
	p.outputs[pinNumber] = &outputPin{pin: pin}
	return nil
}

// Write sets the output pin with given number high (true) or low (false).
func (p *piBridge) Write(pinNumber int, value bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	out, err := p.output(pinNumber)
	if err != nil {
		return err
	}
	if err := out.pin.Write(value); err != nil {
		writeErrorsTotal.Inc()
		return errors.Wrapf(err, "Write[%d] failed", pinNumber)
	}
	out.value = value
	return nil
}

// Read returns the logic level of the output pin with given number.
// When the underlying pin cannot be read back, the last written value is returned.
func (p *piBridge) Read(pinNumber int) (bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	out, err := p.output(pinNumber)
	if err != nil {
		return false, err
	}
	if rp, ok := interface{}(out.pin).(readablePin); ok {
		value, err := rp.Read()
		if err != nil {
			return false, errors.Wrapf(err, "Read[%d] failed", pinNumber)
		}
		return value, nil
	}
	return out.value, nil
}

// output returns the configured output pin. Requires the mutex to be held.
func (p *piBridge) output(pinNumber int) (*outputPin, error) {
	out, found := p.outputs[pinNumber]
	if !found {
		return nil, errors.Wrapf(InvalidDirectionError, "pin %d is not configured as output", pinNumber)
	}
	return out, nil
}

// Turn Green status led on/off
func (p *piBridge) SetGreenLED(on bool) error {
	if err := p.greenLed.Set(on); err != nil {
		return errors.Wrap(err, "Set[greenLed] failed")
	}
	return nil
}

// Turn Red status led on/off
func (p *piBridge) SetRedLED(on bool) error {
	if err := p.redLed.Set(on); err != nil {
		return errors.Wrap(err, "Set[redLed] failed")
	}
	return nil
}

// Blink Green status led with given duration between on/off
func (p *piBridge) BlinkGreenLED(delay time.Duration) error {
	if err := p.greenLed.Blink(delay); err != nil {
		return errors.Wrap(err, "Blink[greenLed] failed")
	}
	return nil
}

// Blink Red status led with given duration between on/off
func (p *piBridge) BlinkRedLED(delay time.Duration) error {
	if err := p.redLed.Blink(delay); err != nil {
		return errors.Wrap(err, "Blink[redLed] failed")
	}
	return nil
}

// Close turns all outputs and status leds off.
func (p *piBridge) Close() error {
	p.SetGreenLED(false)
	p.SetRedLED(false)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	var firstErr error
	for nr, out := range p.outputs {
		if err := out.pin.Write(false); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "Write[%d] failed", nr)
		}
	}
	p.outputs = make(map[int]*outputPin)
	return firstErr
}

// validatePin checks that the given pin number can be used for a light.
func validatePin(pinNumber, pinCount int) error {
	if pinNumber < 0 || pinNumber >= pinCount {
		return errors.Wrapf(InvalidPinError, "pin %d is out of range [0..%d]", pinNumber, pinCount-1)
	}
	if pinNumber == greenLedPin || pinNumber == redLedPin {
		return errors.Wrapf(InvalidPinError, "pin %d is reserved for a status led", pinNumber)
	}
	return nil
}
