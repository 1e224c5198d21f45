// Copyright 2018 Ewout Prangsma
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

package logging

import (
	"context"
	"io"
)

const (
	queueSize = 512
)

// QueuedWriter is an output for logs that never blocks the caller.
type QueuedWriter struct {
	queue chan []byte
	dest  io.Writer
	done  chan struct{}
}

// NewQueuedWriter creates a QueuedWriter.
// Messages are written to dest by a separate goroutine. When the queue is full,
// the oldest message is dropped.
// The writer stops when the given context is canceled.
func NewQueuedWriter(ctx context.Context, dest io.Writer) *QueuedWriter {
	l := &QueuedWriter{
		queue: make(chan []byte, queueSize),
		dest:  dest,
		done:  make(chan struct{}),
	}
	go l.run(ctx)
	return l
}

func (l *QueuedWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// zerolog reuses p after Write returns
	msg := make([]byte, len(p))
	copy(msg, p)
	for attempt := 0; attempt < 10; attempt++ {
		select {
		case l.queue <- msg:
			return len(p), nil
		default:
			// Queue full; Take 1 out and try again
			select {
			case <-l.queue:
			default:
			}
		}
	}
	// Ignore errors
	return len(p), nil
}

// Done is closed once all queued messages have been written after
// the context was canceled.
func (l *QueuedWriter) Done() <-chan struct{} {
	return l.done
}

func (l *QueuedWriter) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case msg := <-l.queue:
			l.dest.Write(msg)
		case <-ctx.Done():
			l.flush()
			return
		}
	}
}

// flush writes all queued messages.
func (l *QueuedWriter) flush() {
	for {
		select {
		case msg := <-l.queue:
			l.dest.Write(msg)
		default:
			return
		}
	}
}
