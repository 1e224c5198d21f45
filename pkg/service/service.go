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

package service

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/binkynet/LightWorker/pkg/lights"
	"github.com/binkynet/LightWorker/pkg/service/bridge"
	"github.com/binkynet/LightWorker/pkg/service/util"
)

type Service interface {
	// Run the worker until the given context is cancelled.
	Run(ctx context.Context) error
	// Execute a single command line and return the reply line.
	// Returns an empty string for blank lines and comments.
	Execute(line string) string
	// RegisterLightActualReceiver registers a callback that is invoked
	// with the actual state of lights after they have been switched.
	RegisterLightActualReceiver(cb func(LightActual)) context.CancelFunc
}

type Config struct {
	ProgramVersion string
	// Lights mapped and configured on startup
	Lights []lights.PinAssignment
	// If set, Run returns once the command transport reaches the end of its input.
	StopOnEOF bool
}

type Dependencies struct {
	Logger zerolog.Logger
	Bridge bridge.API
	// OpenTransport opens the transport that command lines are read from
	// and replies are written to.
	OpenTransport func() (io.ReadWriteCloser, error)
}

type service struct {
	Config
	Dependencies

	// mutex serializes all access to registry
	mutex     sync.Mutex
	registry  *lights.Registry
	statuses  *statusService
	startedAt time.Time
}

// NewService creates a Service instance and returns it.
// The configured lights are mapped and their pins configured as output.
func NewService(conf Config, deps Dependencies) (Service, error) {
	if deps.Bridge == nil {
		return nil, errors.Wrap(InvalidArgumentError, "Bridge is required")
	}
	if deps.OpenTransport == nil {
		return nil, errors.Wrap(InvalidArgumentError, "OpenTransport is required")
	}
	deps.Logger = deps.Logger.With().Str("component", "service").Logger()
	s := &service{
		Config:       conf,
		Dependencies: deps,
		registry:     lights.NewRegistry(deps.Logger, deps.Bridge),
		statuses:     newStatusService(deps.Logger),
		startedAt:    time.Now(),
	}
	s.registry.MapPins(conf.Lights)
	if err := s.registry.SetPinMode(); err != nil {
		s.Logger.Error().Err(err).Msg("Not all lights could be configured")
		s.Bridge.SetRedLED(true)
	}
	s.Logger.Info().
		Int("lights", s.registry.Len()).
		Str("state", s.registry.State().String()).
		Msg("Lights mapped")
	return s, nil
}

// Run reads command lines from the transport until the given context
// is cancelled. A transport that fails is opened again.
func (s *service) Run(ctx context.Context) error {
	log := s.Logger
	defer s.Bridge.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Bridge.BlinkGreenLED(time.Millisecond * 250)
	util.UntilCanceled(runCtx, log, "command loop", func() error {
		err := s.serveTransport(runCtx)
		if errors.Cause(err) == io.EOF {
			if s.StopOnEOF {
				log.Info().Msg("End of command input")
				cancel()
				return nil
			}
			return errors.Wrap(err, "command transport closed")
		}
		return err
	})
	return nil
}

// serveTransport opens the transport and executes all command lines
// read from it.
func (s *service) serveTransport(ctx context.Context) error {
	log := s.Logger
	rw, err := s.OpenTransport()
	if err != nil {
		s.Bridge.BlinkRedLED(time.Millisecond * 500)
		return errors.Wrap(err, "OpenTransport failed")
	}
	var closeOnce sync.Once
	closeTransport := func() { closeOnce.Do(func() { rw.Close() }) }
	defer closeTransport()

	// Unblock a pending read when the context is canceled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeTransport()
		case <-done:
		}
	}()

	s.Bridge.SetRedLED(false)
	s.Bridge.SetGreenLED(true)
	log.Debug().Msg("Command transport opened")

	// Reads may not end when the transport is closed (stdin),
	// so lines are read in a separate goroutine.
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(rw)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				if err := <-readErr; err != nil {
					s.Bridge.BlinkRedLED(time.Millisecond * 500)
					return errors.Wrap(err, "failed to read command")
				}
				return io.EOF
			}
			reply := s.Execute(line)
			if reply == "" {
				continue
			}
			if _, err := io.WriteString(rw, reply+"\n"); err != nil {
				return errors.Wrap(err, "failed to write reply")
			}
		}
	}
}

// RegisterLightActualReceiver registers a callback that is invoked
// with the actual state of lights after they have been switched.
func (s *service) RegisterLightActualReceiver(cb func(LightActual)) context.CancelFunc {
	return s.statuses.RegisterLightActualReceiver(cb)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
