// Copyright 2023 Ewout Prangsma
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
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config of the process logger.
type Config struct {
	// Level name (trace|debug|info|warn|error)
	Level string
	// If set, logs are also appended to this file.
	File string
	// Console output. Defaults to os.Stderr.
	Console io.Writer
}

// NewLogger creates the process logger.
// The returned close function closes the log file (if any) once all
// queued messages are written. Call it after the context is canceled.
func NewLogger(ctx context.Context, cfg Config) (zerolog.Logger, func() error, error) {
	noClose := func() error { return nil }
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), noClose, errors.Wrapf(err, "invalid log level '%s'", cfg.Level)
	}
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: console}
	closer := noClose
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), noClose, errors.Wrapf(err, "failed to open log file '%s'", cfg.File)
		}
		qw := NewQueuedWriter(ctx, f)
		out = NewMultiWriter(out, qw)
		closer = func() error {
			<-qw.Done()
			return f.Close()
		}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}
