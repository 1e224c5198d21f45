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

package model

import (
	"bytes"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/binkynet/LightWorker/pkg/lights"
)

type LocalConfiguration struct {
	// List of lights controlled by the local worker
	Lights []Light `yaml:"lights" validate:"dive"`
}

// LoadConfiguration reads the configuration from the YAML file with given path.
// The configuration is validated before it is returned.
func LoadConfiguration(path string) (LocalConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LocalConfiguration{}, errors.Wrapf(err, "Failed to read '%s'", path)
	}
	c, err := ParseConfiguration(data)
	if err != nil {
		return LocalConfiguration{}, errors.Wrapf(err, "Invalid configuration in '%s'", path)
	}
	return c, nil
}

// ParseConfiguration decodes and validates a YAML encoded configuration.
func ParseConfiguration(data []byte) (LocalConfiguration, error) {
	var c LocalConfiguration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return LocalConfiguration{}, errors.Wrapf(ValidationError, "Failed to decode YAML: %s", err.Error())
	}
	if err := c.Validate(); err != nil {
		return LocalConfiguration{}, maskAny(err)
	}
	return c, nil
}

func (c LocalConfiguration) LightByID(id int) (Light, bool) {
	for _, l := range c.Lights {
		if l.ID == id {
			return l, true
		}
	}
	return Light{}, false
}

// Assignments returns the pin assignments of all lights.
func (c LocalConfiguration) Assignments() []lights.PinAssignment {
	result := make([]lights.PinAssignment, 0, len(c.Lights))
	for _, l := range c.Lights {
		result = append(result, l.Assignment())
	}
	return result
}

func (c LocalConfiguration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrapf(ValidationError, "%s", err.Error())
	}
	ids := make(map[int]struct{})
	pins := make(map[int]int)
	for _, l := range c.Lights {
		if _, found := ids[l.ID]; found {
			return errors.Wrapf(ValidationError, "Light %d is configured more than once", l.ID)
		}
		ids[l.ID] = struct{}{}
		if other, found := pins[l.Pin]; found {
			return errors.Wrapf(ValidationError, "Pin %d is used by light %d and light %d", l.Pin, other, l.ID)
		}
		pins[l.Pin] = l.ID
	}
	return nil
}
