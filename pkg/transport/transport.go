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

package transport

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

const (
	// DefaultBaudRate used for the serial command line.
	DefaultBaudRate = 115200
)

// Config of the command line transport.
type Config struct {
	// Name of the serial device (e.g. /dev/ttyAMA0).
	// If empty, stdin/stdout are used.
	SerialDevice string
	// Baud rate of the serial device
	BaudRate int
}

// Open the transport described by the given configuration.
func Open(cfg Config) (io.ReadWriteCloser, error) {
	if cfg.SerialDevice == "" {
		return NewStdio(os.Stdin, os.Stdout), nil
	}
	return OpenSerial(cfg.SerialDevice, cfg.BaudRate)
}

// OpenSerial opens the serial port with given name.
// Reads block until data is available; closing the port ends a blocked read.
func OpenSerial(name string, baudRate int) (io.ReadWriteCloser, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.OpenPort(&serial.Config{
		Name: name,
		Baud: baudRate,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open serial port '%s'", name)
	}
	return port, nil
}

type stdio struct {
	io.Reader
	io.Writer
}

// NewStdio combines the given reader and writer into a transport.
// Closing it does not close the reader or writer.
func NewStdio(r io.Reader, w io.Writer) io.ReadWriteCloser {
	return &stdio{Reader: r, Writer: w}
}

func (s *stdio) Close() error {
	return nil
}
