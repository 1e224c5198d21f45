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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	terminate "github.com/pulcy/go-terminate"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/LightWorker/model"
	"github.com/binkynet/LightWorker/pkg/environment"
	"github.com/binkynet/LightWorker/pkg/lights"
	"github.com/binkynet/LightWorker/pkg/logging"
	"github.com/binkynet/LightWorker/pkg/server"
	"github.com/binkynet/LightWorker/pkg/service"
	"github.com/binkynet/LightWorker/pkg/service/bridge"
	"github.com/binkynet/LightWorker/pkg/transport"
)

const (
	projectName        = "BinkyNet Light Worker"
	defaultMetricsPort = 7131
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
)

func main() {
	var levelFlag string
	var bridgeType string
	var configPath string
	var serialDevice string
	var baudRate int
	var serverHost string
	var metricsPort int
	var logFile string

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVarP(&bridgeType, "bridge", "b", environment.BridgeAuto, "Type of bridge to use (rpi|virtual|auto)")
	pflag.StringVarP(&configPath, "config", "c", "", "Path of YAML file containing the light to pin mapping")
	pflag.StringVar(&serialDevice, "serial", "", "Serial device to read commands from (default stdin/stdout)")
	pflag.IntVar(&baudRate, "baud", transport.DefaultBaudRate, "Baud rate of the serial device")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&metricsPort, "metrics-port", defaultMetricsPort, "Port the HTTP server will listen on (0 disables it)")
	pflag.StringVar(&logFile, "log-file", "", "Also write logs to this file")
	pflag.Parse()

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, closeLog, err := logging.NewLogger(ctx, logging.Config{
		Level: levelFlag,
		File:  logFile,
	})
	if err != nil {
		Exitf("Failed to initialize logging: %v\n", err)
	}
	defer func() {
		cancel()
		closeLog()
	}()

	if bridgeType == environment.BridgeAuto {
		bridgeType = environment.AutoDetectBridgeType(logger)
	}
	var br bridge.API
	switch bridgeType {
	case environment.BridgeRaspberryPi:
		br, err = bridge.NewRaspberryPiBridge()
		if err != nil {
			Exitf("Failed to initialize Raspberry Pi Bridge: %v\n", err)
		}
	case environment.BridgeVirtual:
		br, err = bridge.NewVirtualBridge()
		if err != nil {
			Exitf("Failed to initialize virtual Bridge: %v\n", err)
		}
	default:
		Exitf("Unknown bridge type '%s' (rpi|virtual|auto)\n", bridgeType)
	}

	var assignments []lights.PinAssignment
	if configPath != "" {
		conf, err := model.LoadConfiguration(configPath)
		if err != nil {
			Exitf("Failed to load configuration: %v\n", err)
		}
		assignments = conf.Assignments()
	}

	transportConfig := transport.Config{
		SerialDevice: serialDevice,
		BaudRate:     baudRate,
	}
	svc, err := service.NewService(service.Config{
		ProgramVersion: projectVersion,
		Lights:         assignments,
		StopOnEOF:      serialDevice == "",
	}, service.Dependencies{
		Logger: logger,
		Bridge: br,
		OpenTransport: func() (io.ReadWriteCloser, error) {
			return transport.Open(transportConfig)
		},
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	logger.Info().Msgf("Starting %s (version %s build %s)", projectName, projectVersion, projectBuild)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The worker is done once the service stops
		defer cancel()
		return svc.Run(gctx)
	})
	if metricsPort > 0 {
		httpServer, err := server.New(server.Config{
			Host:     serverHost,
			HTTPPort: metricsPort,
		}, logger)
		if err != nil {
			Exitf("Failed to initialize Server: %v\n", err)
		}
		g.Go(func() error { return httpServer.Run(gctx) })
	}
	if err := g.Wait(); err != nil {
		Exitf("Service run failed: %v\n", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
