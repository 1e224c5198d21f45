// Copyright 2020-2026 Ewout Prangsma
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
	"context"
	"strconv"

	"github.com/mattn/go-pubsub"
	"github.com/rs/zerolog"

	"github.com/binkynet/LightWorker/pkg/lights"
)

// LightActual is the actual state of a light after it has been switched.
type LightActual struct {
	ID lights.LightID
	On bool
}

func (a LightActual) idLabel() string {
	return strconv.Itoa(int(a.ID))
}

// statusService fans out actual light states to registered receivers.
// Receivers are invoked asynchronously.
type statusService struct {
	log     zerolog.Logger
	actuals *pubsub.PubSub
}

func newStatusService(log zerolog.Logger) *statusService {
	return &statusService{
		log:     log,
		actuals: pubsub.New(),
	}
}

// PublishLightActual sends the given actual state to all receivers.
func (s *statusService) PublishLightActual(a LightActual) {
	publishedActualsTotal.Inc()
	s.actuals.Pub(a)
}

// RegisterLightActualReceiver registers the given callback.
// Call the returned function to stop invoking it.
func (s *statusService) RegisterLightActualReceiver(cb func(LightActual)) context.CancelFunc {
	// All receivers share the same function entry, so pubsub.Leave cannot
	// tell them apart. Canceled receivers stay subscribed but ignore actuals.
	ctx, cancel := context.WithCancel(context.Background())
	wcb := func(a LightActual) {
		if ctx.Err() != nil {
			return
		}
		s.log.Debug().
			Int("light", int(a.ID)).
			Bool("on", a.On).
			Msg("Light actual")
		cb(a)
	}
	if err := s.actuals.Sub(wcb); err != nil {
		s.log.Warn().Err(err).Msg("Failed to register light actual receiver")
	}
	return cancel
}
