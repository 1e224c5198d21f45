// Copyright 2021-2026 Ewout Prangsma
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

package util

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Backoff describes the delays between invocations of a callback.
type Backoff struct {
	// Delay after a successful invocation
	Min time.Duration
	// Upper limit of the delay after repeated failures
	Max time.Duration
	// Factor the delay grows with on each failure
	Factor float64
}

// DefaultBackoff is used by UntilCanceled.
var DefaultBackoff = Backoff{
	Min:    time.Millisecond * 10,
	Max:    time.Second * 5,
	Factor: 1.5,
}

// next returns the delay following the given delay.
func (b Backoff) next(delay time.Duration, failed bool) time.Duration {
	if !failed {
		return b.Min
	}
	delay = time.Duration(float64(delay) * b.Factor)
	if delay > b.Max {
		return b.Max
	}
	return delay
}

// UntilCanceled invokes the given callback until the context is canceled,
// backing off while the callback keeps failing.
func UntilCanceled(ctx context.Context, log zerolog.Logger, description string, cb func() error) {
	UntilCanceledWithBackoff(ctx, log, description, DefaultBackoff, cb)
}

// UntilCanceledWithBackoff is UntilCanceled with a custom backoff.
func UntilCanceledWithBackoff(ctx context.Context, log zerolog.Logger, description string, backoff Backoff, cb func() error) {
	delay := backoff.Min
	for ctx.Err() == nil {
		err := cb()
		if err != nil {
			log.Warn().Err(err).Msgf("%s failed", description)
		}
		delay = backoff.next(delay, err != nil)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msgf("Stopping %s; context canceled", description)
			return
		case <-timer.C:
		}
	}
}
