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

package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestBackoffNext(t *testing.T) {
	b := Backoff{Min: time.Millisecond * 10, Max: time.Millisecond * 30, Factor: 2}
	if d := b.next(time.Millisecond*10, true); d != time.Millisecond*20 {
		t.Errorf("Expected 20ms, got %s", d)
	}
	if d := b.next(time.Millisecond*20, true); d != time.Millisecond*30 {
		t.Errorf("Expected 30ms, got %s", d)
	}
	if d := b.next(time.Millisecond*30, false); d != time.Millisecond*10 {
		t.Errorf("Expected 10ms, got %s", d)
	}
}

func TestUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	b := Backoff{Min: time.Millisecond, Max: time.Millisecond * 2, Factor: 2}
	UntilCanceledWithBackoff(ctx, zerolog.Nop(), "test", b, func() error {
		calls++
		if calls == 3 {
			cancel()
		}
		return errors.New("failure")
	})
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}
