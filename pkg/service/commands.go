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
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/binkynet/LightWorker/pkg/lights"
)

type commandFunc func(s *service, args string) (string, []lights.LightID, error)

var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"map":        (*service).mapCommand,
		"remove":     (*service).removeCommand,
		"remove-all": (*service).removeAllCommand,
		"configure":  (*service).configureCommand,
		"status":     (*service).statusCommand,
		"on":         (*service).onCommand,
		"off":        (*service).offCommand,
		"control":    (*service).controlCommand,
		"mix":        (*service).mixCommand,
		"list":       (*service).listCommand,
		"info":       (*service).infoCommand,
	}
}

// Execute a single command line and return the reply line.
func (s *service) Execute(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	verb, args := splitVerb(line)
	log := s.Logger.With().Str("command", verb).Logger()
	cmd, found := commands[verb]
	if !found {
		commandErrorsTotal.WithLabelValues("unknown").Inc()
		log.Debug().Msg("Unknown command")
		return formatError(errors.Wrapf(UnknownCommandError, "'%s'", verb))
	}
	commandsTotal.WithLabelValues(verb).Inc()

	s.mutex.Lock()
	result, switched, err := cmd(s, args)
	actuals := s.actuals(switched)
	s.mutex.Unlock()

	for _, a := range actuals {
		s.statuses.PublishLightActual(a)
	}
	if err != nil {
		commandErrorsTotal.WithLabelValues(verb).Inc()
		log.Debug().Err(err).Str("args", args).Msg("Command failed")
		return formatError(err)
	}
	if result == "" {
		return "ok"
	}
	return "ok " + result
}

// actuals reads the state of the given lights and updates their gauge.
// Requires the mutex to be held.
func (s *service) actuals(ids []lights.LightID) []LightActual {
	result := make([]LightActual, 0, len(ids))
	for _, id := range ids {
		if on, err := s.registry.Status(id); err == nil {
			a := LightActual{ID: id, On: on}
			lightActualGauge.WithLabelValues(a.idLabel()).Set(float64(boolToInt(on)))
			result = append(result, a)
		}
	}
	return result
}

func (s *service) mapCommand(args string) (string, []lights.LightID, error) {
	if isBatch(args) {
		return "", nil, s.registry.MapPinsText(args)
	}
	values, err := parseInts(args, 2)
	if err != nil {
		return "", nil, err
	}
	s.registry.MapPin(lights.LightID(values[0]), lights.PinNumber(values[1]))
	return "", nil, nil
}

func (s *service) removeCommand(args string) (string, []lights.LightID, error) {
	values, err := parseInts(args, 1)
	if err != nil {
		return "", nil, err
	}
	return "", nil, s.registry.RemovePin(lights.LightID(values[0]))
}

func (s *service) removeAllCommand(args string) (string, []lights.LightID, error) {
	if _, err := parseInts(args, 0); err != nil {
		return "", nil, err
	}
	s.registry.RemoveAllPins()
	return "", nil, nil
}

func (s *service) configureCommand(args string) (string, []lights.LightID, error) {
	if _, err := parseInts(args, 0); err != nil {
		return "", nil, err
	}
	if err := s.registry.SetPinMode(); err != nil {
		return "", nil, err
	}
	return s.registry.State().String(), nil, nil
}

func (s *service) statusCommand(args string) (string, []lights.LightID, error) {
	values, err := parseInts(args, 1)
	if err != nil {
		return "", nil, err
	}
	on, err := s.registry.Status(lights.LightID(values[0]))
	if err != nil {
		return "", nil, err
	}
	return strconv.Itoa(boolToInt(on)), nil, nil
}

func (s *service) onCommand(args string) (string, []lights.LightID, error) {
	return s.switchCommand(args, true)
}

func (s *service) offCommand(args string) (string, []lights.LightID, error) {
	return s.switchCommand(args, false)
}

func (s *service) switchCommand(args string, on bool) (string, []lights.LightID, error) {
	values, err := parseInts(args, 1)
	if err != nil {
		return "", nil, err
	}
	id := lights.LightID(values[0])
	if err := s.registry.ControlLight(id, on); err != nil {
		return "", nil, err
	}
	return "", []lights.LightID{id}, nil
}

func (s *service) controlCommand(args string) (string, []lights.LightID, error) {
	if isBatch(args) {
		if err := s.registry.ControlText(args); err != nil {
			return "", nil, err
		}
		cmd, _ := lights.DecodeCommand(args)
		return "", []lights.LightID{cmd.ID}, nil
	}
	values, err := parseInts(args, 2)
	if err != nil {
		return "", nil, err
	}
	if values[1] != 0 && values[1] != 1 {
		return "", nil, errors.Wrapf(InvalidArgumentError, "status must be 0 or 1, got %d", values[1])
	}
	cmd := lights.Command{ID: lights.LightID(values[0]), On: values[1] == 1}
	if err := s.registry.Control(cmd); err != nil {
		return "", nil, err
	}
	return "", []lights.LightID{cmd.ID}, nil
}

func (s *service) mixCommand(args string) (string, []lights.LightID, error) {
	err := s.registry.MixControlText(args)
	if lights.IsDecode(err) {
		return "", nil, err
	}
	// The text is valid here; report the lights that have a pin
	batch, _ := lights.DecodeCommands(args)
	ids := make([]lights.LightID, 0, len(batch))
	for _, cmd := range batch {
		if _, found := s.registry.PinOf(cmd.ID); found {
			ids = append(ids, cmd.ID)
		}
	}
	return "", ids, err
}

func (s *service) listCommand(args string) (string, []lights.LightID, error) {
	if _, err := parseInts(args, 0); err != nil {
		return "", nil, err
	}
	pairs := make([]string, 0, s.registry.Len())
	for _, a := range s.registry.Mappings() {
		pairs = append(pairs, fmt.Sprintf("[%d,%d]", a.ID, a.Pin))
	}
	return "[" + strings.Join(pairs, ",") + "]", nil, nil
}

func (s *service) infoCommand(args string) (string, []lights.LightID, error) {
	if _, err := parseInts(args, 0); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("version=%s lights=%d state=%s started=%s",
		s.ProgramVersion, s.registry.Len(), s.registry.State(),
		strings.ReplaceAll(humanize.Time(s.startedAt), " ", "-")), nil, nil
}

// splitVerb splits a command line into its verb and the remaining arguments.
func splitVerb(line string) (string, string) {
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		return strings.ToLower(line[:idx]), strings.TrimSpace(line[idx+1:])
	}
	return strings.ToLower(line), ""
}

// isBatch returns true when the given arguments are in array syntax.
func isBatch(args string) bool {
	return strings.HasPrefix(args, "[")
}

// parseInts parses exactly count whitespace separated integers.
func parseInts(args string, count int) ([]int, error) {
	fields := strings.Fields(args)
	if len(fields) != count {
		return nil, errors.Wrapf(InvalidArgumentError, "expected %d arguments, got %d", count, len(fields))
	}
	result := make([]int, 0, count)
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(InvalidArgumentError, "'%s' is not an integer", f)
		}
		result = append(result, v)
	}
	return result, nil
}

// formatError creates a single line error reply.
func formatError(err error) string {
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	return "error " + msg
}
