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

package lights

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// DecodeAssignments parses a text formatted as "[[lightId,pin],[lightId,pin],...]".
func DecodeAssignments(text string) ([]PinAssignment, error) {
	pairs, err := decodePairs([]byte(text))
	if err != nil {
		return nil, err
	}
	result := make([]PinAssignment, 0, len(pairs))
	for _, p := range pairs {
		result = append(result, PinAssignment{ID: LightID(p[0]), Pin: PinNumber(p[1])})
	}
	return result, nil
}

// DecodeCommands parses a text formatted as "[[lightId,status],[lightId,status],...]".
func DecodeCommands(text string) ([]Command, error) {
	pairs, err := decodePairs([]byte(text))
	if err != nil {
		return nil, err
	}
	result := make([]Command, 0, len(pairs))
	for i, p := range pairs {
		cmd, err := pairToCommand(p)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		result = append(result, cmd)
	}
	return result, nil
}

// DecodeCommand parses a text formatted as "[lightId,status]".
func DecodeCommand(text string) (Command, error) {
	p, err := decodePair([]byte(text))
	if err != nil {
		return Command{}, err
	}
	return pairToCommand(p)
}

func pairToCommand(p [2]int) (Command, error) {
	switch p[1] {
	case 0:
		return Command{ID: LightID(p[0]), On: false}, nil
	case 1:
		return Command{ID: LightID(p[0]), On: true}, nil
	default:
		return Command{}, errors.Wrapf(DecodeError, "status of light %d must be 0 or 1, got %d", p[0], p[1])
	}
}

// decodePairs parses an array of 2-element integer arrays.
func decodePairs(data []byte) ([][2]int, error) {
	elems, err := decodeArray(data)
	if err != nil {
		return nil, err
	}
	result := make([][2]int, 0, len(elems))
	for i, elem := range elems {
		p, err := decodePair(elem)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		result = append(result, p)
	}
	return result, nil
}

// decodePair parses a single 2-element integer array.
func decodePair(data []byte) ([2]int, error) {
	elems, err := decodeArray(data)
	if err != nil {
		return [2]int{}, err
	}
	if len(elems) != 2 {
		return [2]int{}, errors.Wrapf(DecodeError, "expected 2 elements, got %d", len(elems))
	}
	var result [2]int
	for i, elem := range elems {
		v, err := strconv.Atoi(string(bytes.TrimSpace(elem)))
		if err != nil {
			return [2]int{}, errors.Wrapf(DecodeError, "element %d is not an integer: '%s'", i, string(elem))
		}
		result[i] = v
	}
	return result, nil
}

// decodeArray parses a JSON array without interpreting its elements.
func decodeArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.Wrapf(DecodeError, "expected array, got '%s'", string(trimmed))
	}
	var result []json.RawMessage
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, errors.Wrapf(DecodeError, "%s", err.Error())
	}
	return result, nil
}
