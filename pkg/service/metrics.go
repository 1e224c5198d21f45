// Copyright 2023-2026 Ewout Prangsma
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

package service

import (
	"github.com/binkynet/LightWorker/pkg/metrics"
)

const (
	subSystem = "service"
)

var (
	// Total number of executed commands per verb
	commandsTotal = metrics.MustRegisterCounterVec(subSystem,
		"commands_total",
		"Total number of executed commands per verb",
		"verb")
	// Total number of failed commands per verb
	commandErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"command_errors_total",
		"Total number of failed commands per verb",
		"verb")
	// Total number of published light actuals
	publishedActualsTotal = metrics.MustRegisterCounter(subSystem,
		"published_actuals_total",
		"Total number of published light actuals")
	// Actual state of a light (0=OFF, 1=ON)
	lightActualGauge = metrics.MustRegisterGaugeVec(subSystem,
		"light_actual",
		"Actual state of a light (0=OFF, 1=ON)",
		"id")
)
