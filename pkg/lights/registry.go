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
	"sort"
	"strconv"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Registry maps lights to pins and drives those pins.
// A Registry is not safe for concurrent use; hosts that call it from
// multiple goroutines must serialize access.
type Registry struct {
	log        zerolog.Logger
	io         DigitalIO
	pins       map[LightID]PinNumber
	configured map[PinNumber]struct{}
}

// NewRegistry creates an empty registry that uses the given I/O to access pins.
func NewRegistry(log zerolog.Logger, io DigitalIO) *Registry {
	return &Registry{
		log:        log.With().Str("component", "lights").Logger(),
		io:         io,
		pins:       make(map[LightID]PinNumber),
		configured: make(map[PinNumber]struct{}),
	}
}

// MapPin maps the given light to the given pin, replacing any earlier mapping.
func (r *Registry) MapPin(id LightID, pin PinNumber) {
	r.pins[id] = pin
	mappedLightsGauge.Set(float64(len(r.pins)))
}

// MapPins maps all given assignments in order.
func (r *Registry) MapPins(batch []PinAssignment) {
	for _, a := range batch {
		r.MapPin(a.ID, a.Pin)
	}
}

// MapPinsText maps all assignments of a text formatted as
// "[[lightId,pin],[lightId,pin],...]".
// If the text cannot be decoded, the mapping is left unchanged.
func (r *Registry) MapPinsText(text string) error {
	batch, err := DecodeAssignments(text)
	if err != nil {
		decodeErrorsTotal.WithLabelValues("map").Inc()
		r.log.Debug().Err(err).Str("text", text).Msg("invalid pin mapping")
		return err
	}
	r.MapPins(batch)
	return nil
}

// SetPinMode configures the pins of all mapped lights as output.
// Pins that fail to configure are reported in the returned error,
// all others are configured.
func (r *Registry) SetPinMode() error {
	var ae aerr.AggregateError
	for _, a := range r.Mappings() {
		if err := r.io.ConfigureOutput(int(a.Pin)); err != nil {
			r.log.Warn().Err(err).
				Int("light", int(a.ID)).
				Int("pin", int(a.Pin)).
				Msg("Failed to configure pin")
			ae.Add(errors.Wrapf(err, "configure pin %d of light %d", a.Pin, a.ID))
			continue
		}
		r.configured[a.Pin] = struct{}{}
		pinConfigurationsTotal.Inc()
	}
	return ae.AsError()
}

// State returns Configured when all mapped pins are configured as output.
func (r *Registry) State() LifecycleState {
	for _, pin := range r.pins {
		if _, found := r.configured[pin]; !found {
			return Unconfigured
		}
	}
	return Configured
}

// Status returns the current logic level of the pin of the given light.
func (r *Registry) Status(id LightID) (bool, error) {
	pin, err := r.configuredPin(id)
	if err != nil {
		return false, err
	}
	value, err := r.io.Read(int(pin))
	if err != nil {
		pinReadErrorsTotal.WithLabelValues(strconv.Itoa(int(pin))).Inc()
		return false, errors.Wrapf(err, "read pin %d of light %d", pin, id)
	}
	return value, nil
}

// RemovePin removes the mapping of the given light.
// Removing an unmapped light changes nothing and returns a NotFoundError.
func (r *Registry) RemovePin(id LightID) error {
	if _, err := r.lookup(id); err != nil {
		return err
	}
	delete(r.pins, id)
	mappedLightsGauge.Set(float64(len(r.pins)))
	return nil
}

// RemoveAllPins removes all mappings.
func (r *Registry) RemoveAllPins() {
	r.pins = make(map[LightID]PinNumber)
	mappedLightsGauge.Set(0)
}

// TurnOn sets the pin of the given light high.
func (r *Registry) TurnOn(id LightID) error {
	return r.write(id, true)
}

// TurnOff sets the pin of the given light low.
func (r *Registry) TurnOff(id LightID) error {
	return r.write(id, false)
}

// ControlLight turns the given light on or off.
func (r *Registry) ControlLight(id LightID, on bool) error {
	if on {
		return r.TurnOn(id)
	}
	return r.TurnOff(id)
}

// Control executes a single command.
func (r *Registry) Control(cmd Command) error {
	return r.ControlLight(cmd.ID, cmd.On)
}

// ControlText executes a single command formatted as "[lightId,status]".
func (r *Registry) ControlText(text string) error {
	cmd, err := DecodeCommand(text)
	if err != nil {
		decodeErrorsTotal.WithLabelValues("control").Inc()
		r.log.Debug().Err(err).Str("text", text).Msg("invalid control command")
		return err
	}
	return r.Control(cmd)
}

// MixControl executes all given commands in order.
// A failing command does not stop the others from being executed.
// Returns nil only when all commands succeeded.
func (r *Registry) MixControl(batch []Command) error {
	var ae aerr.AggregateError
	for _, cmd := range batch {
		ae.Add(r.Control(cmd))
	}
	return ae.AsError()
}

// MixControlText executes all commands of a text formatted as
// "[[lightId,status],[lightId,status],...]".
// If the text cannot be decoded, no command is executed.
func (r *Registry) MixControlText(text string) error {
	batch, err := DecodeCommands(text)
	if err != nil {
		decodeErrorsTotal.WithLabelValues("mix").Inc()
		r.log.Debug().Err(err).Str("text", text).Msg("invalid mixed control commands")
		return err
	}
	return r.MixControl(batch)
}

// PinOf returns the pin mapped to the given light.
func (r *Registry) PinOf(id LightID) (PinNumber, bool) {
	pin, found := r.pins[id]
	return pin, found
}

// Mappings returns all assignments ordered by light ID.
func (r *Registry) Mappings() []PinAssignment {
	result := make([]PinAssignment, 0, len(r.pins))
	for id, pin := range r.pins {
		result = append(result, PinAssignment{ID: id, Pin: pin})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Len returns the number of mapped lights.
func (r *Registry) Len() int {
	return len(r.pins)
}

func (r *Registry) write(id LightID, value bool) error {
	pin, err := r.configuredPin(id)
	if err != nil {
		return err
	}
	pinLabel := strconv.Itoa(int(pin))
	pinWritesTotal.WithLabelValues(pinLabel).Inc()
	if err := r.io.Write(int(pin), value); err != nil {
		pinWriteErrorsTotal.WithLabelValues(pinLabel).Inc()
		return errors.Wrapf(err, "write pin %d of light %d", pin, id)
	}
	return nil
}

// lookup returns the pin of the given light or a NotFoundError.
func (r *Registry) lookup(id LightID) (PinNumber, error) {
	pin, found := r.pins[id]
	if !found {
		lookupMissesTotal.Inc()
		r.log.Debug().Int("light", int(id)).Msg("light not found")
		return 0, errors.Wrapf(NotFoundError, "light %d", id)
	}
	return pin, nil
}

// configuredPin returns the pin of the given light, which must be
// configured as output.
func (r *Registry) configuredPin(id LightID) (PinNumber, error) {
	pin, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	if _, found := r.configured[pin]; !found {
		return 0, errors.Wrapf(NotConfiguredError, "pin %d of light %d", pin, id)
	}
	return pin, nil
}
