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
	"github.com/binkynet/LightWorker/pkg/lights"
)

// Light maps a single logical light to a local GPIO pin.
type Light struct {
	// Identifier of the light, as used in commands
	ID int `yaml:"id" validate:"gte=0"`
	// Number of the GPIO pin that drives the light
	Pin int `yaml:"pin" validate:"gte=0"`
	// Optional human readable name of the light
	Name string `yaml:"name,omitempty" validate:"omitempty,max=64"`
}

// Assignment returns the pin assignment of this light.
func (l Light) Assignment() lights.PinAssignment {
	return lights.PinAssignment{
		ID:  lights.LightID(l.ID),
		Pin: lights.PinNumber(l.Pin),
	}
}
