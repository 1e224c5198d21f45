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

import "github.com/pkg/errors"

var (
	// DecodeError is the cause of all errors returned when a text
	// does not follow the command batch syntax.
	DecodeError = errors.New("decode failed")
	IsDecode    = isErrorFunc(DecodeError)
	// NotFoundError is the cause of all errors returned when a light
	// has no pin mapped to it.
	NotFoundError = errors.New("light not found")
	IsNotFound    = isErrorFunc(NotFoundError)
	// NotConfiguredError is the cause of all errors returned when a light
	// is driven before its pin has been configured as output.
	NotConfiguredError = errors.New("pin not configured")
	IsNotConfigured    = isErrorFunc(NotConfiguredError)
)

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
