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
	"github.com/binkynet/LightWorker/pkg/metrics"
)

const (
	subSystem = "lights"
)

var (
	// Number of lights currently mapped to a pin
	mappedLightsGauge = metrics.MustRegisterGauge(subSystem,
		"mapped_lights",
		"Number of lights currently mapped to a pin")
	// Total number of pin writes per pin
	pinWritesTotal = metrics.MustRegisterCounterVec(subSystem,
		"pin_writes_total",
		"Total number of pin writes",
		"pin")
	// Total number of failed pin writes per pin
	pinWriteErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"pin_write_errors_total",
		"Total number of failed pin writes",
		"pin")
	// Total number of failed pin reads per pin
	pinReadErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"pin_read_errors_total",
		"Total number of failed pin reads",
		"pin")
	// Total number of pins configured as output
	pinConfigurationsTotal = metrics.MustRegisterCounter(subSystem,
		"pin_configurations_total",
		"Total number of pins configured as output")
	// Total number of operations on unmapped lights
	lookupMissesTotal = metrics.MustRegisterCounter(subSystem,
		"lookup_misses_total",
		"Total number of operations on lights without a mapped pin")
	// Total number of texts that could not be decoded
	decodeErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"decode_errors_total",
		"Total number of texts that could not be decoded",
		"operation")
)
